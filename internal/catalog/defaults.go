package catalog

// DefaultModels is the built-in catalog used when the config file doesn't
// provide one. Prices are per million tokens and approximate — used for
// estimation, not billing.
func DefaultModels() []ModelSpec {
	return []ModelSpec{
		{ID: "anthropic/claude-opus-4-6", Name: "Claude Opus", Provider: "Anthropic", Vision: true, Reasoning: ReasoningEnabled, BlendedPerMTok: 30.0, InputPerMTok: 15.0, OutputPerMTok: 75.0},
		{ID: "anthropic/claude-sonnet-4-5-20250929", Name: "Claude Sonnet", Provider: "Anthropic", Vision: true, BlendedPerMTok: 6.0, InputPerMTok: 3.0, OutputPerMTok: 15.0},
		{ID: "openai/o3", Name: "o3", Provider: "OpenAI", Vision: true, Reasoning: ReasoningHigh, BlendedPerMTok: 17.5, InputPerMTok: 10.0, OutputPerMTok: 40.0},
		{ID: "openai/gpt-4o", Name: "GPT-4o", Provider: "OpenAI", Vision: true, BlendedPerMTok: 4.4, InputPerMTok: 2.5, OutputPerMTok: 10.0},
		{ID: "openai/gpt-4o-mini", Name: "GPT-4o mini", Provider: "OpenAI", Vision: true, BlendedPerMTok: 0.26, InputPerMTok: 0.15, OutputPerMTok: 0.6},
		{ID: "google/gemini-2.5-pro", Name: "Gemini 2.5 Pro", Provider: "Google", Vision: true, Reasoning: ReasoningLow, BlendedPerMTok: 3.4, InputPerMTok: 1.25, OutputPerMTok: 10.0},
		{ID: "google/gemini-2.0-flash", Name: "Gemini 2.0 Flash", Provider: "Google", Vision: true, BlendedPerMTok: 0.18, InputPerMTok: 0.1, OutputPerMTok: 0.4},
		{ID: "deepseek/deepseek-r1", Name: "DeepSeek R1", Provider: "DeepSeek", Reasoning: ReasoningEnabled, BlendedPerMTok: 0.96, InputPerMTok: 0.55, OutputPerMTok: 2.19},
		{ID: "deepseek/deepseek-chat", Name: "DeepSeek Chat", Provider: "DeepSeek", BlendedPerMTok: 0.18, InputPerMTok: 0.14, OutputPerMTok: 0.28},
		{ID: "moonshotai/kimi-k2", Name: "Kimi K2", Provider: "Moonshot", BlendedPerMTok: 0.95, InputPerMTok: 0.6, OutputPerMTok: 2.0},
	}
}

// DefaultSynthesizer is the model used for the synthesis pass when the config
// doesn't name one.
const DefaultSynthesizer = "anthropic/claude-sonnet-4-5-20250929"
