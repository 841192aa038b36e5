package redact

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genSecretKeyName generates env-style variable names that carry a
// credential keyword.
func genSecretKeyName() gopter.Gen {
	return gopter.CombineGens(
		gen.OneConstOf("API_KEY", "APIKEY", "SECRET", "TOKEN", "PASSWORD", "PASSWD", "CREDENTIAL"),
		gen.OneConstOf("", "MY_", "DB_", "AWS_", "APP_"),
	).Map(func(values []any) string {
		keyword := values[0].(string)
		prefix := values[1].(string)
		return prefix + keyword
	})
}

// genSecretValue generates plausible secret values of varying length,
// including very short ones.
func genSecretValue() gopter.Gen {
	return gen.RegexMatch(`[A-Za-z0-9_-]{1,40}`).SuchThat(func(s string) bool {
		return len(s) > 0
	})
}

// TestProperty_EnvAssignmentsNeverSurvive verifies that any env-style
// assignment of a credential-named variable is fully masked, regardless
// of value length.
func TestProperty_EnvAssignmentsNeverSurvive(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("assignment value is masked", prop.ForAll(
		func(key, value string) bool {
			input := "+" + key + "=" + value
			got := Secrets(input)
			return !strings.Contains(got, key+"="+value) &&
				strings.Contains(got, Placeholder)
		},
		genSecretKeyName(),
		genSecretValue(),
	))

	properties.Property("separator and quoting do not matter", prop.ForAll(
		func(key, value string, sep int, quoted bool) bool {
			seps := []string{"=", ": ", " = ", ":"}
			v := value
			if quoted {
				v = `"` + value + `"`
			}
			input := key + seps[sep%len(seps)] + v
			got := Secrets(input)
			return !strings.Contains(got, value+`"`) &&
				!strings.Contains(got, "="+value) &&
				strings.Contains(got, Placeholder)
		},
		genSecretKeyName(),
		genSecretValue(),
		gen.IntRange(0, 3),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// TestProperty_RedactionIsIdempotent verifies that redacting already
// redacted text changes nothing.
func TestProperty_RedactionIsIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("Secrets(Secrets(x)) == Secrets(x)", prop.ForAll(
		func(key, value, filler string) bool {
			input := filler + "\n" + key + "=" + value + "\n" + filler
			once := Secrets(input)
			twice := Secrets(once)
			return once == twice
		},
		genSecretKeyName(),
		genSecretValue(),
		gen.AlphaString(),
	))

	properties.Property("Diff(Diff(x)) == Diff(x)", prop.ForAll(
		func(key, value string) bool {
			diff := "--- a/.env\n+++ b/.env\n@@ -0,0 +1 @@\n+" + key + "=" + value
			once := Diff(diff)
			twice := Diff(once)
			return once == twice
		},
		genSecretKeyName(),
		genSecretValue(),
	))

	properties.TestingRun(t)
}
