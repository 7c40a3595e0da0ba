package domain

// IntentType classifies what the user wants to do.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentListRecipes
	IntentSelectRecipe
	IntentShowMetric
	IntentShowImperial
	IntentShowOriginal
	IntentToggle
	IntentConvert // payload: "<amount> <unit> <system>"
	IntentDetect
	IntentRead // read the displayed ingredients aloud
	IntentSearch
	IntentHelp
	IntentQuit
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentListRecipes:
		return "list_recipes"
	case IntentSelectRecipe:
		return "select_recipe"
	case IntentShowMetric:
		return "show_metric"
	case IntentShowImperial:
		return "show_imperial"
	case IntentShowOriginal:
		return "show_original"
	case IntentToggle:
		return "toggle"
	case IntentConvert:
		return "convert"
	case IntentDetect:
		return "detect"
	case IntentRead:
		return "read"
	case IntentSearch:
		return "search"
	case IntentHelp:
		return "help"
	case IntentQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Intent represents a parsed user action.
type Intent struct {
	Type    IntentType
	Payload string // optional context, e.g. recipe number for select
}

// intentNames maps snake_case names to IntentType values.
var intentNames = map[string]IntentType{
	"list_recipes":  IntentListRecipes,
	"select_recipe": IntentSelectRecipe,
	"show_metric":   IntentShowMetric,
	"show_imperial": IntentShowImperial,
	"show_original": IntentShowOriginal,
	"toggle":        IntentToggle,
	"convert":       IntentConvert,
	"detect":        IntentDetect,
	"read":          IntentRead,
	"search":        IntentSearch,
	"help":          IntentHelp,
	"quit":          IntentQuit,
	"unknown":       IntentUnknown,
}

// IntentFromString converts a snake_case intent name to an IntentType.
// Returns IntentUnknown for unrecognized names.
func IntentFromString(name string) IntentType {
	if t, ok := intentNames[name]; ok {
		return t
	}
	return IntentUnknown
}
