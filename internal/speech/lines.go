package speech

import "strings"

// spokenUnits expands unit abbreviations so the voice does not spell them
// out. Values are singular and plural forms.
var spokenUnits = map[string][2]string{
	"tbsp": {"tablespoon", "tablespoons"},
	"tsp":  {"teaspoon", "teaspoons"},
	"ml":   {"milliliter", "milliliters"},
	"l":    {"liter", "liters"},
	"g":    {"gram", "grams"},
	"kg":   {"kilogram", "kilograms"},
	"oz":   {"ounce", "ounces"},
	"lb":   {"pound", "pounds"},
	"lbs":  {"pound", "pounds"},
	"pt":   {"pint", "pints"},
	"qt":   {"quart", "quarts"},
	"gal":  {"gallon", "gallons"},
}

// Spoken rewrites a display line such as "3.4 tbsp white miso" into
// "3.4 tablespoons white miso".
func Spoken(line string) string {
	words := strings.Fields(line)
	out := make([]string, 0, len(words))
	for i := 0; i < len(words); i++ {
		w := words[i]
		one := i > 0 && words[i-1] == "1"

		if strings.EqualFold(w, "fl") && i+1 < len(words) && strings.EqualFold(words[i+1], "oz") {
			if one {
				out = append(out, "fluid ounce")
			} else {
				out = append(out, "fluid ounces")
			}
			i++
			continue
		}
		if forms, ok := spokenUnits[strings.ToLower(w)]; ok {
			if one {
				out = append(out, forms[0])
			} else {
				out = append(out, forms[1])
			}
			continue
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}
