package types

import "fmt"

// Intent is the closed set of constructs an instruction can describe.
type Intent int

const (
	Unknown Intent = iota
	FunctionDef
	ClassDef
	Conditional
	Loop
)

var intentNames = map[Intent]string{
	Unknown:     "Unknown",
	FunctionDef: "FunctionDef",
	ClassDef:    "ClassDef",
	Conditional: "Conditional",
	Loop:        "Loop",
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return fmt.Sprintf("Intent(%d)", int(i))
}

// ParseIntent converts the name used in rule tables into an Intent.
func ParseIntent(name string) (Intent, error) {
	for intent, n := range intentNames {
		if n == name {
			return intent, nil
		}
	}
	return Unknown, fmt.Errorf("unknown intent %q", name)
}

// MarshalText implements encoding.TextMarshaler so intents read well in
// JSON and YAML output.
func (i Intent) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Intent) UnmarshalText(text []byte) error {
	parsed, err := ParseIntent(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
