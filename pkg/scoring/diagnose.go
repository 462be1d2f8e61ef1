package scoring

import "strings"

const (
	vowels     = "aeiou"
	consonants = "bcdfghjklmnpqrstvwxyz"
)

// identifyErrors compares target vs spoken positionally and reports up to two
// human-readable mismatch hints, in the fixed order vowel, consonant, length.
// Within each class only the first divergence is reported.
func identifyErrors(target, spoken string) []string {
	errs := []string{}
	if target == spoken {
		return errs
	}

	targetVowels := filterRunes(target, vowels)
	spokenVowels := filterRunes(spoken, vowels)
	if len(targetVowels) != len(spokenVowels) {
		errs = append(errs, "vowel count mismatch")
	} else {
		for i := range targetVowels {
			if targetVowels[i] != spokenVowels[i] {
				errs = append(errs, "vowel '"+string(targetVowels[i])+"' pronounced as '"+string(spokenVowels[i])+"'")
				break
			}
		}
	}

	targetCons := filterRunes(target, consonants)
	spokenCons := filterRunes(spoken, consonants)
	if len(targetCons) != len(spokenCons) {
		errs = append(errs, "consonant count mismatch")
	} else {
		for i := range targetCons {
			if targetCons[i] != spokenCons[i] {
				errs = append(errs, "consonant '"+string(targetCons[i])+"' pronounced as '"+string(spokenCons[i])+"'")
				break
			}
		}
	}

	if len(target) != len(spoken) && len(errs) == 0 {
		if len(target) > len(spoken) {
			errs = append(errs, "word too short")
		} else {
			errs = append(errs, "word too long")
		}
	}

	if len(errs) > 2 {
		errs = errs[:2]
	}
	return errs
}

func filterRunes(s, set string) []rune {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if strings.ContainsRune(set, r) {
			out = append(out, r)
		}
	}
	return out
}
