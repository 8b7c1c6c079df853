package translate

import "strings"

// Translator expands free text into an ordered list of sign video URLs.
type Translator struct {
	resolver *Resolver
}

func NewTranslator(r *Resolver) *Translator {
	return &Translator{resolver: r}
}

// Translate splits text on whitespace and resolves each token in order.
// Tokens that resolve to nothing are skipped. The result is never nil so
// callers can encode it directly as a JSON array.
func (t *Translator) Translate(text string) []string {
	urls := make([]string, 0, 8)
	for _, token := range strings.Fields(text) {
		resolved, _ := t.resolver.ResolveToken(token)
		urls = append(urls, resolved...)
	}
	return urls
}
