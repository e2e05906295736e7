package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/amasbarry223/blasira-admin/internal/apiclient"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// userMessage returns what the user should read for err. API errors carry a
// ready-made message; everything else falls back to the error text.
func userMessage(err error) string {
	var loginErr *loginError
	if errors.As(err, &loginErr) {
		return loginErr.Error()
	}

	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		if apiErr.Detail != nil {
			return fmt.Sprintf("%s (%v)", apiErr.Message, apiErr.Detail)
		}
		return apiErr.Message
	}
	return err.Error()
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("identifiant invalide: %q", s)
	}
	return id, nil
}
