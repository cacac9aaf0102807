package requirements

var builtin = []Requirement{
	{Name: "context7", Description: "Context management system", Critical: true, Package: "@upstash/context7-mcp"},
	{Name: "deepwiki", Description: "Remote wiki server", EventStream: true},
	{
		Name:        "github",
		Description: "GitHub integration",
		Critical:    true,
		EnvVars:     []string{"GITHUB_PERSONAL_ACCESS_TOKEN"},
		Package:     "@modelcontextprotocol/server-github",
	},
	{Name: "filesystem", Description: "File system access", Critical: true, Package: "@modelcontextprotocol/server-filesystem"},
	{Name: "playwright", Description: "Browser automation", Package: "@playwright/mcp"},
	{Name: "puppeteer", Description: "Browser automation alternative", Package: "@modelcontextprotocol/server-puppeteer"},
	{Name: "memory", Description: "Persistent memory", Critical: true, Package: "@modelcontextprotocol/server-memory"},
	{Name: "sequential-thinking", Description: "Sequential reasoning", Package: "@modelcontextprotocol/server-sequential-thinking"},
	{Name: "everything", Description: "Everything server", Package: "@modelcontextprotocol/server-everything"},
	{Name: "kubernetes", Description: "Kubernetes management", EnvVars: []string{"KUBECONFIG"}, Package: "mcp-server-kubernetes"},
	{Name: "ssh", Description: "SSH connections", Package: "@modelcontextprotocol/server-ssh"},
	{Name: "sqlite", Description: "SQLite database", Package: "@modelcontextprotocol/server-sqlite"},
	{
		Name:        "turso",
		Description: "Turso database",
		EnvVars:     []string{"TURSO_DATABASE_URL", "TURSO_AUTH_TOKEN"},
		Package:     "@modelcontextprotocol/server-turso",
	},
	{Name: "terraform", Description: "Infrastructure as code", Package: "@modelcontextprotocol/server-terraform"},
	{Name: "nixos", Description: "NixOS package management", Package: "@modelcontextprotocol/server-nixos"},
	{
		Name:        "prometheus",
		Description: "Prometheus monitoring",
		EnvVars:     []string{"PROMETHEUS_URL"},
		Package:     "@modelcontextprotocol/server-prometheus",
	},
	{Name: "helm", Description: "Helm chart management", Package: "@modelcontextprotocol/server-helm"},
	{Name: "fetch", Description: "HTTP fetch utility", Package: "@modelcontextprotocol/server-fetch"},
	{Name: "youtube-transcript", Description: "YouTube transcript extraction", Package: "@modelcontextprotocol/server-youtube-transcript"},
}
