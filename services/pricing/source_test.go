package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turnero/models"
)

func TestFileSourceFallsBackToDefaults(t *testing.T) {
	rules, err := FileSource{Path: ""}.LoadRules()
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), rules)

	rules, err = FileSource{Path: "/nonexistent/rules.yaml"}.LoadRules()
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), rules)
}

func TestFileSourceParsesRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `rules:
  - name: Evening Premium
    kind: time_of_day
    multiplier: 1.2
    priority: 1
    condition:
      peakWindows: ["18:00-21:00"]
  - name: Busy Day
    kind: demand_based
    multiplier: 1.5
    priority: 2
    condition:
      threshold: 0.9
  - name: Summer
    kind: seasonal
    multiplier: 1.05
    priority: 3
    condition:
      months: [12, 1, 2]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	rules, err := FileSource{Path: path}.LoadRules()
	require.NoError(t, err)
	require.Len(t, rules, 3)

	assert.Equal(t, "Evening Premium", rules[0].Name)
	assert.Equal(t, models.RuleTimeOfDay, rules[0].Kind)
	assert.Equal(t, []models.MinuteRange{{Start: 18 * 60, End: 21 * 60}}, rules[0].Condition.PeakWindows)
	assert.Equal(t, 0.9, rules[1].Condition.Threshold)
	require.Len(t, rules[2].Condition.Months, 3)
}

func TestFileSourceRejectsBadRules(t *testing.T) {
	for name, content := range map[string]string{
		"bad window": `rules:
  - name: X
    kind: time_of_day
    multiplier: 1.1
    condition:
      peakWindows: ["25:00-26:00"]
`,
		"bad month": `rules:
  - name: X
    kind: seasonal
    multiplier: 1.1
    condition:
      months: [13]
`,
		"bad kind": `rules:
  - name: X
    kind: astrological
    multiplier: 1.1
`,
		"bad multiplier": `rules:
  - name: X
    kind: seasonal
    multiplier: 0
`,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rules.yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
			_, err := FileSource{Path: path}.LoadRules()
			assert.Error(t, err)
		})
	}
}
