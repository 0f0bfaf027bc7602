package ztext

const (
	alphabet0 = "abcdefghijklmnopqrstuvwxyz"
	alphabet1 = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	// The first two characters of A2 are placeholders for the escape and newline codes.
	alphabet2   = " \n0123456789.,!?_#'\"/\\-:()"
	alphabet2v1 = " 0123456789.,!?_#'\"/\\<-:()"
)

// defaultExtraChars are the characters for ZSCII codes 155 and up when
// the story does not provide a unicode translation table.
var defaultExtraChars = []rune("äöüÄÖÜß»«ëïÿËÏáéíóúýÁÉÍÓÚÝàèìòùÀÈÌÒÙâêîôûÂÊÎÔÛåÅøØãñõÃÑÕæÆçÇþðÞÐ£œŒ¡¿")

// ZSCII codes with special meaning.
const (
	ZSCIINull          = 0
	ZSCIIDelete        = 8
	ZSCIITab           = 9
	ZSCIISentenceSpace = 11
	ZSCIINewline       = 13
	ZSCIIEscape        = 27
	ZSCIIFirstExtra    = 155
)

type alphabets [3][26]byte

func defaultAlphabets(version uint8) (ret alphabets) {
	copy(ret[0][:], alphabet0)
	copy(ret[1][:], alphabet1)
	if version == 1 {
		copy(ret[2][:], alphabet2v1)
	} else {
		copy(ret[2][:], alphabet2)
	}
	return ret
}
