package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateID returns a new unique identifier string
func GenerateID() string {
	return uuid.New().String()
}

// PrefixedID returns a short readable identifier such as "REQ-1a2b3c4d"
func PrefixedID(prefix string) string {
	short := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return prefix + "-" + strings.ToUpper(short)
}
