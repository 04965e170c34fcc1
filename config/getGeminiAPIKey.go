package config

// GetGeminiAPIKey returns the Gemini key, or "" when the AI summary
// feature is disabled for this deployment.
func GetGeminiAPIKey() string {
	return GetEnv("GEMINI_API_KEY")
}
