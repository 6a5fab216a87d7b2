package util

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var ErrInvalidPhoneNumber = errors.New("invalid phone number")

// Phone is a parsed number: "+48" and "+48532390966".
type Phone struct {
	CountryCode string
	E164        string
}

// NormalizePhone parses raw into E.164. Numbers without a leading "+" are read
// in the region of defaultCountryCode (e.g. "+48"); E.164 input comes back unchanged.
func NormalizePhone(raw, defaultCountryCode string) (Phone, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Phone{}, fmt.Errorf("%w: empty", ErrInvalidPhoneNumber)
	}
	if strings.HasPrefix(s, "00") {
		s = "+" + s[2:]
	}

	region := ""
	if !strings.HasPrefix(s, "+") {
		region = regionFor(defaultCountryCode)
		if region == "" {
			return Phone{}, fmt.Errorf("%w: %q has no country code", ErrInvalidPhoneNumber, raw)
		}
	}

	num, err := phonenumbers.Parse(s, region)
	if err != nil {
		return Phone{}, fmt.Errorf("%w: %q: %v", ErrInvalidPhoneNumber, raw, err)
	}
	if !phonenumbers.IsPossibleNumber(num) {
		return Phone{}, fmt.Errorf("%w: %q", ErrInvalidPhoneNumber, raw)
	}

	return Phone{
		CountryCode: "+" + strconv.Itoa(int(num.GetCountryCode())),
		E164:        phonenumbers.Format(num, phonenumbers.E164),
	}, nil
}

func regionFor(countryCode string) string {
	cc, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(countryCode), "+"))
	if err != nil || cc <= 0 {
		return ""
	}
	region := phonenumbers.GetRegionCodeForCountryCode(cc)
	if region == "" || region == "ZZ" {
		return ""
	}
	return region
}
