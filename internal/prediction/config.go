package prediction

// Config locates the prediction service. Call deadlines come from the caller's context.
type Config struct {
	BaseURL     string
	PredictPath string
	HealthPath  string
}

func (c *Config) predictURL() string {
	return c.BaseURL + c.PredictPath
}

func (c *Config) healthURL() string {
	return c.BaseURL + c.HealthPath
}
