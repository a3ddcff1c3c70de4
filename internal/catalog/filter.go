package catalog

// validText accepts lowercase ASCII words. Presentation transforms add
// capitals and punctuation later, so the catalog stores the bare form only.
func validText(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}
