package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default container envelope applied to new plans
	DefaultContainer ContainerSize `json:"default_container"`

	// Default packing settings applied to new plans
	DefaultAllowRotation bool          `json:"default_allow_rotation"`
	DefaultGroupSimilar  bool          `json:"default_group_similar"`
	DefaultStacking      bool          `json:"default_stacking"`
	DefaultStackStrategy StackStrategy `json:"default_stack_strategy"`
	DefaultHeightTol     int           `json:"default_height_tolerance"` // mm, 0 = disabled
	DefaultMultiStrategy bool          `json:"default_multi_strategy"`

	// Application preferences
	FillFactor  float64  `json:"fill_factor"` // Percent assumed by the load estimate
	RecentPlans []string `json:"recent_plans"`
	LogLevel    string   `json:"log_level"` // "debug", "info", "warn", "error"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultContainer:     NewPlan().Size,
		DefaultAllowRotation: defaults.AllowRotation,
		DefaultGroupSimilar:  defaults.GroupSimilar,
		DefaultStacking:      defaults.AllowStackingInLayer,
		DefaultStackStrategy: defaults.StackStrategy,
		DefaultHeightTol:     0,
		DefaultMultiStrategy: defaults.UseMultiStrategy,
		FillFactor:           85,
		RecentPlans:          []string{},
		LogLevel:             "info",
	}
}

// ApplyToSettings copies the default values from AppConfig into a PackSettings struct.
// This is used when creating a new plan so it inherits the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *PackSettings) {
	s.AllowRotation = c.DefaultAllowRotation
	s.GroupSimilar = c.DefaultGroupSimilar
	s.AllowStackingInLayer = c.DefaultStacking
	if c.DefaultStackStrategy != "" {
		s.StackStrategy = c.DefaultStackStrategy
	}
	s.AllowHeightTolerance = c.DefaultHeightTol > 0
	if c.DefaultHeightTol > 0 {
		s.HeightTolerance = c.DefaultHeightTol
	}
	s.UseMultiStrategy = c.DefaultMultiStrategy
}
