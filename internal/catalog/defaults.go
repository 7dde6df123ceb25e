package catalog

import (
	"strings"

	"github.com/Rrens/lookup-bot/internal/domain"
)

type entry struct {
	id     domain.OperationID
	name   string
	path   string
	params []string
	glyph  string
}

var defaultOperations = []entry{
	// Network
	{"ip", "IP Lookup", "/ip?domain={}", []string{"Domain or IP address"}, "🌐"},
	{"dns", "DNS", "/dns?domain={}", []string{"Domain"}, "🔗"},
	{"whois", "Whois", "/whois?domain={}", []string{"Domain"}, "🔎"},
	{"subdomain", "Subdomains", "/subdomain?url={}", []string{"URL"}, ""},
	{"headers", "HTTP Headers", "/headers?url={}", []string{"URL"}, "📨"},
	{"port", "Port Check", "/port?host={}&port={}", []string{"Host", "Port"}, "🔌"},

	// Everyday
	{"weather", "Weather", "/weather?city={}", []string{"City"}, "☀️"},
	{"pharmacy", "Duty Pharmacy", "/pharmacy?province={}&district={}", []string{"Province", "District"}, "💊"},
	{"fx", "Exchange Rate", "/fx?from={}&to={}", []string{"Base currency (e.g. EUR)", "Quote currency (e.g. TRY)"}, "💱"},
	{"holidays", "Public Holidays", "/holidays?country={}&year={}", []string{"Country code", "Year"}, "📅"},
	{"time", "World Clock", "/time?zone={}", []string{"Time zone (e.g. Europe/Istanbul)"}, "🕰"},
	{"quake", "Latest Earthquakes", "/earthquakes", nil, "🌋"},

	// Utilities
	{"hash", "Text Hash", "/hash?method={}&text={}", []string{"Method (md5, sha1, sha256)", "Text"}, "🔒"},
	{"encode", "Base64 Encode", "/base64?text={}", []string{"Text"}, "🧮"},
	{"uuid", "Random UUID", "/uuid", nil, "🎲"},
	{"status", "Service Status", "/status", nil, "📋"},
}

var defaultCategories = []domain.Category{
	{
		ID:         "network",
		Name:       "🌐 Network",
		Operations: []domain.OperationID{"ip", "dns", "whois", "subdomain", "headers", "port"},
	},
	{
		ID:         "everyday",
		Name:       "☀️ Everyday",
		Operations: []domain.OperationID{"weather", "pharmacy", "fx", "holidays", "time", "quake"},
	},
	{
		ID:         "utilities",
		Name:       "⚙️ Utilities",
		Operations: []domain.OperationID{"hash", "encode", "uuid", "status"},
	},
}

// Default builds the compiled-in catalog against the given service base URL
func Default(baseURL string) (*Catalog, error) {
	base := strings.TrimRight(baseURL, "/")

	ops := make([]domain.Operation, 0, len(defaultOperations))
	for _, e := range defaultOperations {
		ops = append(ops, domain.Operation{
			ID:               e.id,
			Name:             e.name,
			EndpointTemplate: base + e.path,
			ParamPrompts:     e.params,
			Glyph:            e.glyph,
		})
	}

	return New(defaultCategories, ops)
}
