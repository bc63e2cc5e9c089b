package screenshot

import (
	"regexp"

	v "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var webScheme = regexp.MustCompile(`(?i)^https?://`)

// Query is the screenshot request.
type Query struct {
	URL  string `json:"url"`
	Size string `json:"size"`
}

func (q Query) Validate(sizes []string) error {
	allowed := make([]interface{}, len(sizes))
	for i, s := range sizes {
		allowed[i] = s
	}

	return v.ValidateStruct(&q,
		v.Field(&q.URL, v.Required, is.RequestURL, v.Match(webScheme)),
		v.Field(&q.Size, v.Required, v.In(allowed...)),
	)
}

// problem maps validation errors to the message sent to the client. URL
// problems win over size problems.
func problem(err error) string {
	errs, ok := err.(v.Errors)
	if !ok {
		return "bad request"
	}
	if _, bad := errs["url"]; bad {
		return "bad url"
	}
	if _, bad := errs["size"]; bad {
		return "bad size"
	}
	return "bad request"
}
