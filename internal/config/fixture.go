package config

// FixtureConfig locates the files served by the fixture storefront
type FixtureConfig struct {
	DataDir     string // appdetails fixtures, one <appid>.json per product
	TemplateDir string
	StaticDir   string
}

// LoadFixtureConfig loads fixture storefront paths from environment variables
func LoadFixtureConfig(getenv func(string) string) FixtureConfig {
	config := FixtureConfig{
		DataDir:     getenv("FIXTURE_DIR"),
		TemplateDir: getenv("TEMPLATE_DIR"),
		StaticDir:   getenv("STATIC_DIR"),
	}
	if config.DataDir == "" {
		config.DataDir = "testdata/appdetails"
	}
	if config.TemplateDir == "" {
		config.TemplateDir = "templates"
	}
	if config.StaticDir == "" {
		config.StaticDir = "static"
	}
	return config
}
