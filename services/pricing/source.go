package pricing

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"turnero/models"
	"turnero/utils"
)

// Source supplies the pricing rule set. Implementations may load from
// disk, a remote config service, or a static slice.
type Source interface {
	LoadRules() ([]models.PricingRule, error)
}

// StaticSource serves a fixed rule set.
type StaticSource struct {
	Rules []models.PricingRule
}

func (s StaticSource) LoadRules() ([]models.PricingRule, error) {
	return s.Rules, nil
}

// FileSource reads rules from a YAML file. When the path is empty or
// the file is missing, the built-in defaults are served instead so the
// engine never starts without a rule set.
type FileSource struct {
	Path string
}

type ruleFile struct {
	Rules []struct {
		Name       string  `mapstructure:"name"`
		Kind       string  `mapstructure:"kind"`
		Multiplier float64 `mapstructure:"multiplier"`
		Priority   int     `mapstructure:"priority"`
		Condition  struct {
			PeakWindows   []string `mapstructure:"peakWindows"`
			Weekends      bool     `mapstructure:"weekends"`
			MaxHoursAhead int      `mapstructure:"maxHoursAhead"`
			Threshold     float64  `mapstructure:"threshold"`
			Months        []int    `mapstructure:"months"`
		} `mapstructure:"condition"`
	} `mapstructure:"rules"`
}

func (f FileSource) LoadRules() ([]models.PricingRule, error) {
	logger := utils.GetLogger().With(zap.String("component", "pricing"))
	if f.Path == "" {
		logger.Info("No pricing rules file configured, using defaults")
		return DefaultRules(), nil
	}

	v := viper.New()
	v.SetConfigFile(f.Path)
	if err := v.ReadInConfig(); err != nil {
		logger.Warn("Failed to read pricing rules file, using defaults",
			zap.String("path", f.Path), zap.Error(err))
		return DefaultRules(), nil
	}

	var file ruleFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to parse pricing rules file %s: %w", f.Path, err)
	}

	rules := make([]models.PricingRule, 0, len(file.Rules))
	for _, r := range file.Rules {
		rule := models.PricingRule{
			Name:       r.Name,
			Kind:       models.RuleKind(r.Kind),
			Multiplier: r.Multiplier,
			Priority:   r.Priority,
			Condition: models.RuleCondition{
				Weekends:      r.Condition.Weekends,
				MaxHoursAhead: r.Condition.MaxHoursAhead,
				Threshold:     r.Condition.Threshold,
			},
		}
		for _, w := range r.Condition.PeakWindows {
			mr, err := models.ParseClockRange(w)
			if err != nil {
				return nil, fmt.Errorf("rule %q: invalid peak window %q: %w", r.Name, w, err)
			}
			rule.Condition.PeakWindows = append(rule.Condition.PeakWindows, mr)
		}
		for _, m := range r.Condition.Months {
			if m < 1 || m > 12 {
				return nil, fmt.Errorf("rule %q: invalid month %d", r.Name, m)
			}
			rule.Condition.Months = append(rule.Condition.Months, time.Month(m))
		}
		if err := validateRule(rule); err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, err)
		}
		rules = append(rules, rule)
	}
	logger.Info("Loaded pricing rules from file",
		zap.String("path", f.Path), zap.Int("count", len(rules)))
	return rules, nil
}

func validateRule(r models.PricingRule) error {
	if r.Name == "" {
		return fmt.Errorf("rule name is required")
	}
	if r.Multiplier <= 0 {
		return fmt.Errorf("multiplier must be positive, got %v", r.Multiplier)
	}
	switch r.Kind {
	case models.RuleTimeOfDay, models.RuleDemandBased, models.RuleSeasonal:
	default:
		return fmt.Errorf("unknown rule kind %q", r.Kind)
	}
	return nil
}
