package formatter

type GeneralIssueFormatter struct{}

func (f *GeneralIssueFormatter) IssueTemplate() string {
	return `{{header .Severity .Rule .MaxLineNumWidth .Filename .Line -}}
{{snippet .Text .Line .MaxLineNumWidth .Padding -}}
{{underlineAndMessage .Message .Padding .Text}}
`
}

// NoMatchFormatter is used when no grammar rule accepts the instruction.
type NoMatchFormatter struct{}

func (f *NoMatchFormatter) IssueTemplate() string {
	return `{{header .Severity .Rule .MaxLineNumWidth .Filename .Line -}}
{{snippet .Text .Line .MaxLineNumWidth .Padding -}}
{{underlineAndMessage .Message .Padding .Text -}}
{{suggestion "describe a function, class, conditional or loop, e.g. \"Write a function to check if a number is prime\""}}
`
}

// MissingSlotFormatter names the slot the semantic stage could not find.
type MissingSlotFormatter struct{}

func (f *MissingSlotFormatter) IssueTemplate() string {
	return `{{header .Severity .Rule .MaxLineNumWidth .Filename .Line -}}
{{snippet .Text .Line .MaxLineNumWidth .Padding -}}
{{underlineAndMessage .Message .Padding .Text -}}
{{slotNote .Intent .MissingSlot}}
`
}

// SyntaxFormatter lists the parse problems of generated source.
type SyntaxFormatter struct{}

func (f *SyntaxFormatter) IssueTemplate() string {
	return `{{header .Severity .Rule .MaxLineNumWidth .Filename .Line -}}
{{snippet .Text .Line .MaxLineNumWidth .Padding -}}
{{underlineAndMessage .Message .Padding .Text -}}
{{problems .Padding .Problems}}
`
}
