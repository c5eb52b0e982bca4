package ngram

import "checktxt/internal/lang"

var stopWordsRu = map[string]struct{}{
	"и": {}, "в": {}, "на": {}, "с": {}, "к": {}, "по": {}, "из": {}, "у": {}, "о": {}, "а": {},
	"но": {}, "что": {}, "как": {}, "это": {}, "для": {}, "не": {}, "за": {}, "от": {}, "до": {},
	"при": {}, "же": {}, "бы": {}, "или": {}, "то": {}, "так": {}, "да": {}, "ещё": {}, "уже": {},
	"все": {}, "вот": {}, "ни": {}, "чем": {}, "если": {}, "ли": {},
}

var stopWordsEn = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {}, "at": {},
	"to": {}, "for": {}, "of": {}, "with": {}, "by": {}, "from": {}, "as": {}, "is": {}, "was": {},
	"are": {}, "were": {}, "been": {}, "be": {}, "have": {}, "has": {}, "had": {}, "do": {},
	"does": {}, "did": {}, "will": {}, "would": {}, "could": {}, "should": {}, "may": {},
	"might": {}, "must": {}, "shall": {}, "can": {}, "need": {}, "it": {}, "that": {}, "this": {},
	"which": {}, "who": {}, "what": {}, "where": {}, "when": {}, "why": {}, "how": {},
}

func stopWordsFor(l lang.Language) map[string]struct{} {
	if l == lang.Russian {
		return stopWordsRu
	}
	return stopWordsEn
}

