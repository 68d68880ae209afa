package errors

import (
	"errors"
	"fmt"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	RemoteCode string `json:"remote_code,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
		d.RemoteCode = remoteCodeFromDetails(te.Details())
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	return d
}

func remoteCodeFromDetails(details any) string {
	dm, ok := details.(map[string]any)
	if !ok {
		return ""
	}
	if code, ok := dm["remote_code"]; ok {
		return fmt.Sprint(code)
	}
	return ""
}
