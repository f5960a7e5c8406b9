package lemma

import "strings"

// English is a table-and-suffix lemmatizer for Penn Treebank tagged English.
// Proper nouns keep their form; everything else is lowercased.
type English struct{}

var irregularVerbs = map[string]string{
	"am": "be", "is": "be", "are": "be", "was": "be", "were": "be", "been": "be", "being": "be", "'s": "be", "'re": "be", "'m": "be",
	"has": "have", "had": "have", "having": "have", "'ve": "have",
	"does": "do", "did": "do", "done": "do",
	"goes": "go", "went": "go", "gone": "go",
	"made": "make", "said": "say", "took": "take", "taken": "take",
	"came": "come", "saw": "see", "seen": "see", "got": "get", "gotten": "get",
	"gave": "give", "given": "give", "knew": "know", "known": "know",
	"thought": "think", "told": "tell", "found": "find", "left": "leave",
	"felt": "feel", "kept": "keep", "began": "begin", "begun": "begin",
	"brought": "bring", "bought": "buy", "wrote": "write", "written": "write",
	"ran": "run", "sat": "sit", "stood": "stand", "held": "hold",
	"ate": "eat", "eaten": "eat", "drank": "drink", "drunk": "drink",
	"spoke": "speak", "spoken": "speak", "met": "meet", "paid": "pay",
	"sent": "send", "built": "build", "lost": "lose", "meant": "mean",
	"won": "win", "led": "lead", "fell": "fall", "fallen": "fall",
	"chose": "choose", "chosen": "choose", "wore": "wear", "worn": "wear",
	"'d": "would", "wo": "will", "ca": "can", "sha": "shall",
}

var irregularNouns = map[string]string{
	"men": "man", "women": "woman", "children": "child", "people": "person",
	"mice": "mouse", "geese": "goose", "feet": "foot", "teeth": "tooth",
	"antennae": "antenna", "larvae": "larva", "formulae": "formula",
	"criteria": "criterion", "phenomena": "phenomenon", "analyses": "analysis",
	"theses": "thesis", "crises": "crisis", "indices": "index", "matrices": "matrix",
	"wives": "wife", "knives": "knife", "lives": "life", "leaves": "leaf",
	"wolves": "wolf", "halves": "half", "shelves": "shelf", "oxen": "ox",
}

var irregularAdjectives = map[string]string{
	"better": "good", "best": "good", "worse": "bad", "worst": "bad",
	"more": "much", "most": "much", "less": "little", "least": "little",
	"further": "far", "furthest": "far", "farther": "far", "farthest": "far",
}

// Lemma implements Lemmatizer.
func (English) Lemma(word, tag string) string {
	if word == "" {
		return ""
	}
	tag = strings.ToUpper(tag)
	if tag == "NNP" || tag == "NNPS" {
		return word
	}
	lower := strings.ToLower(word)
	switch {
	case tag == "NNS":
		return nounLemma(lower)
	case strings.HasPrefix(tag, "VB") || tag == "MD":
		return verbLemma(lower, tag)
	case tag == "JJR" || tag == "JJS" || tag == "RBR" || tag == "RBS":
		return adjectiveLemma(lower, tag)
	case tag == "PRP" || tag == "PRP$":
		return pronounLemma(lower)
	}
	return lower
}

func nounLemma(w string) string {
	if l, ok := irregularNouns[w]; ok {
		return l
	}
	switch {
	case len(w) > 4 && strings.HasSuffix(w, "ies"):
		return w[:len(w)-3] + "y"
	case hasAnySuffix(w, "sses", "xes", "ches", "shes", "zzes"):
		return w[:len(w)-2]
	case len(w) > 3 && strings.HasSuffix(w, "ae"):
		return w[:len(w)-1]
	case strings.HasSuffix(w, "s") && !hasAnySuffix(w, "ss", "us", "is") && len(w) > 2:
		return w[:len(w)-1]
	}
	return w
}

func verbLemma(w, tag string) string {
	if l, ok := irregularVerbs[w]; ok {
		return l
	}
	switch tag {
	case "VBZ":
		switch {
		case len(w) > 4 && strings.HasSuffix(w, "ies"):
			return w[:len(w)-3] + "y"
		case hasAnySuffix(w, "sses", "xes", "ches", "shes", "zzes", "oes"):
			return w[:len(w)-2]
		case strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") && len(w) > 2:
			return w[:len(w)-1]
		}
	case "VBD", "VBN":
		switch {
		case len(w) > 4 && strings.HasSuffix(w, "ied"):
			return w[:len(w)-3] + "y"
		case len(w) > 3 && strings.HasSuffix(w, "ed"):
			return restoreStem(w[:len(w)-2])
		}
	case "VBG":
		if len(w) > 4 && strings.HasSuffix(w, "ing") {
			return restoreStem(w[:len(w)-3])
		}
	}
	return w
}

func adjectiveLemma(w, tag string) string {
	if l, ok := irregularAdjectives[w]; ok {
		return l
	}
	suffix := "er"
	if tag == "JJS" || tag == "RBS" {
		suffix = "est"
	}
	if !strings.HasSuffix(w, suffix) || len(w) <= len(suffix)+2 {
		return w
	}
	stem := w[:len(w)-len(suffix)]
	if strings.HasSuffix(stem, "i") {
		return stem[:len(stem)-1] + "y"
	}
	return restoreStem(stem)
}

func pronounLemma(w string) string {
	switch w {
	case "me", "my", "mine", "myself":
		return "I"
	case "us", "our", "ours", "ourselves":
		return "we"
	case "him", "his", "himself":
		return "he"
	case "her", "hers", "herself":
		return "she"
	case "them", "their", "theirs", "themselves":
		return "they"
	case "its", "itself":
		return "it"
	case "your", "yours", "yourself", "yourselves":
		return "you"
	case "i":
		return "I"
	}
	return w
}

// restoreStem undoes consonant doubling ("stopp" -> "stop") and restores a
// silent e after a consonant-vowel-consonant ending ("lov" -> "love").
func restoreStem(stem string) string {
	n := len(stem)
	if n >= 3 && stem[n-1] == stem[n-2] && isConsonant(stem[n-1]) && !strings.ContainsRune("lsz", rune(stem[n-1])) {
		return stem[:n-1]
	}
	if n >= 2 && strings.ContainsRune("vcgz", rune(stem[n-1])) && !isConsonant(stem[n-2]) {
		return stem + "e"
	}
	return stem
}

func isConsonant(c byte) bool {
	return c >= 'a' && c <= 'z' && !strings.ContainsRune("aeiou", rune(c))
}

func hasAnySuffix(w string, suffixes ...string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(w, s) {
			return true
		}
	}
	return false
}
