package formatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/fatih/color"

	"github.com/gnoswap-labs/nlc/internal/syntax"
	"github.com/gnoswap-labs/nlc/internal/types"
)

const (
	severityError   = "error"
	severityWarning = "warning"

	// rule shown for CodeGenWarnings
	ruleCodegen = "codegen"
)

var (
	errorStyle      = color.New(color.FgRed, color.Bold)
	warningStyle    = color.New(color.FgHiYellow, color.Bold)
	ruleStyle       = color.New(color.FgYellow, color.Bold)
	fileStyle       = color.New(color.FgCyan, color.Bold)
	lineStyle       = color.New(color.FgHiBlue, color.Bold)
	messageStyle    = color.New(color.FgRed, color.Bold)
	suggestionStyle = color.New(color.FgGreen, color.Bold)
)

// Instruction locates the text a diagnostic is about.
type Instruction struct {
	Source string
	Line   int
	Text   string
}

// issueFormatter is implemented by every diagnostic layout.
type issueFormatter interface {
	IssueTemplate() string
}

// getIssueFormatter returns the layout for a compile stage, or the
// general one.
func getIssueFormatter(rule string) issueFormatter {
	switch types.Stage(rule) {
	case types.StageMatch:
		return &NoMatchFormatter{}
	case types.StageSemantic:
		return &MissingSlotFormatter{}
	case types.StageSyntax:
		return &SyntaxFormatter{}
	default:
		return &GeneralIssueFormatter{}
	}
}

// GenerateFormattedError renders a failed compile. Errors that are not a
// *types.CompilationError are shown with the general layout.
func GenerateFormattedError(in Instruction, err error) string {
	data := newIssueData(in, severityError, "error", err.Error())

	var cerr *types.CompilationError
	if errors.As(err, &cerr) {
		data.Rule = string(cerr.Stage)
		data.Message = cerr.Detail
		data.MissingSlot = cerr.MissingSlot
	}
	var se *types.SemanticError
	if errors.As(err, &se) {
		data.Intent = se.Intent.String()
	}
	var serr *syntax.Error
	if errors.As(err, &serr) {
		data.Message = syntax.ErrInvalidSyntax.Error()
		for _, p := range serr.Problems {
			data.Problems = append(data.Problems, p.String())
		}
	}

	return buildIssue(data, getIssueFormatter(data.Rule))
}

// GenerateFormattedWarnings renders the warnings of a successful compile.
func GenerateFormattedWarnings(in Instruction, warnings []types.CodeGenWarning) string {
	var builder strings.Builder
	for _, w := range warnings {
		data := newIssueData(in, severityWarning, ruleCodegen, w.String())
		builder.WriteString(buildIssue(data, &GeneralIssueFormatter{}))
	}
	return builder.String()
}

/***** Issue Formatter Builder *****/

type IssueData struct {
	Severity        string
	Rule            string
	Filename        string
	Line            int
	Padding         string
	MaxLineNumWidth int
	Text            string
	Message         string
	Intent          string
	MissingSlot     string
	Problems        []string
}

func newIssueData(in Instruction, severity, rule, message string) IssueData {
	width := calculateMaxLineNumWidth(in.Line)
	return IssueData{
		Severity:        severity,
		Rule:            rule,
		Filename:        in.Source,
		Line:            in.Line,
		Padding:         strings.Repeat(" ", width+1),
		MaxLineNumWidth: width,
		Text:            in.Text,
		Message:         message,
	}
}

var funcMap = template.FuncMap{
	"header":              header,
	"snippet":             codeSnippet,
	"underlineAndMessage": underlineAndMessage,
	"note":                note,
	"suggestion":          suggestion,
	"problems":            problems,
	"slotNote":            slotNote,
}

func buildIssue(data IssueData, formatter issueFormatter) string {
	tmpl := template.Must(template.New("issue").Funcs(funcMap).Parse(formatter.IssueTemplate()))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting issue: %v", err)
	}
	return buf.String()
}

// utils functions used in the text templates

func header(severity, rule string, maxLineNumWidth int, filename string, line int) string {
	var endString string
	switch severity {
	case severityError:
		endString = errorStyle.Sprint("error: ")
	case severityWarning:
		endString = warningStyle.Sprint("warning: ")
	}
	endString += ruleStyle.Sprintf("%s\n", rule)

	padding := strings.Repeat(" ", maxLineNumWidth)
	endString += lineStyle.Sprintf("%s--> ", padding)
	if line > 0 {
		endString += fileStyle.Sprintf("%s:%d\n", filename, line)
	} else {
		endString += fileStyle.Sprintf("%s\n", filename)
	}
	return endString
}

func codeSnippet(text string, line int, maxLineNumWidth int, padding string) string {
	endString := lineStyle.Sprintf("%s|\n", padding)
	lineNum := fmt.Sprintf("%*d", maxLineNumWidth, line)
	endString += lineStyle.Sprintf("%s | ", lineNum) + text + "\n"
	return endString
}

func underlineAndMessage(message, padding, text string) string {
	var endString string
	if text != "" {
		endString = lineStyle.Sprintf("%s| ", padding)
		endString += messageStyle.Sprintf("%s\n", strings.Repeat("~", len([]rune(text))))
	}
	endString += lineStyle.Sprintf("%s= ", padding)
	endString += messageStyle.Sprintf("%s\n", message)
	return endString
}

func problems(padding string, list []string) string {
	var endString string
	for _, p := range list {
		endString += lineStyle.Sprintf("%s= ", padding) + p + "\n"
	}
	return endString
}

func note(note string) string {
	if note == "" {
		return ""
	}
	return suggestionStyle.Sprint("Note: ") + lineStyle.Sprintf("%s\n", note)
}

func suggestion(suggestion string) string {
	if suggestion == "" {
		return ""
	}
	return suggestionStyle.Sprint("Suggestion: ") + suggestion + "\n"
}

func slotNote(intent, slot string) string {
	if slot == "" {
		return ""
	}
	if intent == "" {
		return note(fmt.Sprintf("the instruction has no %s", slot))
	}
	return note(fmt.Sprintf("a %s instruction needs a %s", intent, slot))
}

func calculateMaxLineNumWidth(line int) int {
	return len(fmt.Sprintf("%d", line))
}
