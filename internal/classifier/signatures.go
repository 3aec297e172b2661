package classifier

// Signature maps a user-agent substring pattern to the AI agent it identifies.
type Signature struct {
	Pattern string
	Agent   string
}

// Signatures is the ordered signature table. Matching walks the table in
// declaration order and the first hit wins, so a pattern that is a substring
// of another must come after it (chatgpt-user before chatgpt, claudebot
// before claude, perplexitybot before perplexity).
var Signatures = []Signature{
	// OpenAI
	{Pattern: "gptbot", Agent: "GPTBot"},
	{Pattern: "chatgpt-user", Agent: "ChatGPT-User"},
	{Pattern: "oai-searchbot", Agent: "OAI-SearchBot"},
	{Pattern: "chatgpt", Agent: "ChatGPT"},
	{Pattern: "openai", Agent: "OpenAI"},

	// Anthropic
	{Pattern: "claudebot", Agent: "ClaudeBot"},
	{Pattern: "claude-web", Agent: "Claude-Web"},
	{Pattern: "anthropic", Agent: "Anthropic"},
	{Pattern: "claude", Agent: "Claude"},

	// DeepSeek
	{Pattern: "deepseekbot", Agent: "DeepSeekBot"},
	{Pattern: "deepseek-crawler", Agent: "DeepSeek-Crawler"},
	{Pattern: "deepseek", Agent: "DeepSeek"},

	// Google
	{Pattern: "google-extended", Agent: "Google-Extended"},
	{Pattern: "geminibot", Agent: "GeminiBot"},
	{Pattern: "gemini", Agent: "Gemini"},
	{Pattern: "googleai", Agent: "GoogleAI"},

	// Perplexity
	{Pattern: "perplexitybot", Agent: "PerplexityBot"},
	{Pattern: "perplexityai", Agent: "PerplexityAI"},
	{Pattern: "perplexity", Agent: "Perplexity"},

	// Microsoft
	{Pattern: "microsoft-bingbot", Agent: "Microsoft-BingBot"},
	{Pattern: "bingbot", Agent: "BingBot"},
	{Pattern: "bingpreview", Agent: "BingPreview"},
	{Pattern: "bingai", Agent: "BingAI"},

	// Meta
	{Pattern: "facebookexternalhit", Agent: "FacebookExternalHit"},
	{Pattern: "metabot", Agent: "MetaBot"},
	{Pattern: "meta-externalagent", Agent: "Meta-ExternalAgent"},
	{Pattern: "metaai", Agent: "MetaAI"},

	// Others
	{Pattern: "character.ai", Agent: "Character.AI"},
	{Pattern: "characterai", Agent: "CharacterAI"},
	{Pattern: "youbot", Agent: "YouBot"},
	{Pattern: "you.com", Agent: "You.com"},
	{Pattern: "ai2bot", Agent: "AI2Bot"},
	{Pattern: "jasperbot", Agent: "JasperBot"},
	{Pattern: "copy.ai", Agent: "Copy.ai"},
	{Pattern: "notionbot", Agent: "NotionBot"},
	{Pattern: "slackbot", Agent: "SlackBot"},
	{Pattern: "discordbot", Agent: "DiscordBot"},
	{Pattern: "coherebot", Agent: "CohereBot"},
	{Pattern: "replicatebot", Agent: "ReplicateBot"},
	{Pattern: "huggingfacebot", Agent: "HuggingFaceBot"},
	{Pattern: "bytespider", Agent: "Bytespider"},
	{Pattern: "amazonbot", Agent: "Amazonbot"},
	{Pattern: "applebot-extended", Agent: "Applebot-Extended"},
}
