package rewriter

// Rule is a single DNS rewrite held by AdGuard Home: queries for Domain are
// answered with Answer. Domain is the identity key; this tool never keeps
// more than one rule per domain even though the appliance permits
// duplicates.
type Rule struct {
	Domain string `json:"domain"`
	Answer string `json:"answer"`
}
