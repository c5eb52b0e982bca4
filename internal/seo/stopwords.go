package seo

import "checktxt/internal/lang"

// SEO stop words extend the function-word lists with generic pronouns and
// verbs that would otherwise dominate the top lemmas.
var seoStopWordsRu = map[string]struct{}{
	"и": {}, "в": {}, "на": {}, "с": {}, "к": {}, "по": {}, "из": {}, "у": {}, "о": {}, "а": {},
	"но": {}, "что": {}, "как": {}, "это": {}, "для": {}, "не": {}, "за": {}, "от": {}, "до": {},
	"при": {}, "же": {}, "бы": {}, "или": {}, "то": {}, "так": {}, "да": {}, "ещё": {}, "уже": {},
	"все": {}, "вот": {}, "ни": {}, "чем": {}, "если": {}, "ли": {},
	"быть": {}, "который": {}, "свой": {}, "весь": {}, "этот": {}, "тот": {}, "мочь": {}, "такой": {},
}

var seoStopWordsEn = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {}, "at": {},
	"to": {}, "for": {}, "of": {}, "with": {}, "by": {}, "from": {}, "as": {}, "is": {}, "was": {},
	"are": {}, "were": {}, "been": {}, "be": {}, "have": {}, "has": {}, "had": {}, "do": {},
	"does": {}, "did": {}, "will": {}, "would": {}, "could": {}, "should": {}, "may": {},
	"might": {}, "must": {}, "shall": {}, "can": {}, "need": {}, "it": {}, "that": {}, "this": {},
	"which": {}, "who": {}, "what": {}, "where": {}, "when": {}, "why": {}, "how": {}, "their": {},
	"there": {}, "they": {}, "them": {}, "your": {}, "you": {}, "our": {}, "we": {}, "us": {},
	"me": {}, "my": {},
}

func seoStopWordsFor(l lang.Language) map[string]struct{} {
	if l == lang.Russian {
		return seoStopWordsRu
	}
	return seoStopWordsEn
}
