package speech

import (
	"strings"
)

// Family is a group of synthesis models sharing a native sample rate.
type Family string

const (
	FamilyVITS     Family = "vits"
	FamilySpeechT5 Family = "speecht5"
	FamilyPiper    Family = "piper"
	FamilyKokoro   Family = "kokoro"
)

var familyRates = map[Family]int{
	FamilyVITS:     22050,
	FamilySpeechT5: 16000,
	FamilyPiper:    22050,
	FamilyKokoro:   24000,
}

// SampleRate returns the native sample rate of the family, or 0 if unknown.
func (f Family) SampleRate() int {
	return familyRates[Family(strings.ToLower(string(f)))]
}
