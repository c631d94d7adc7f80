package req

import (
	"fmt"
	"net/url"
)

type Parser struct {
	formDecoder formDecoder
	validator
}

func NewParser() *Parser {
	return &Parser{
		formDecoder: newFormDecoder(),
		validator:   newValidator(),
	}
}

// ParseForm decodes into a pointer to a struct the form data in
// *http.Request.PostForm.
// If successful, ParseForm runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
//
// Calling code must have called *http.Request.ParseForm first.
func (p *Parser) ParseForm(form url.Values, structPtr any) error {
	if err := p.formDecoder.decode(structPtr, form); err != nil {
		return fmt.Errorf("traillog/http/req: failed decoding request form: %w", err)
	}

	if err := p.validate(structPtr); err != nil {
		return fmt.Errorf("traillog/http/req: %T failed validation: %w", structPtr, err)
	}

	return nil
}

// ParseQueryParams decodes into a pointer to a struct the query param data in
// *http.Request.URL.Query.
// If successful, ParseQueryParams runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
func (p *Parser) ParseQueryParams(params url.Values, structPtr any) error {
	if err := p.formDecoder.decode(structPtr, params); err != nil {
		return fmt.Errorf("traillog/http/req: failed decoding request query params: %w", err)
	}

	if err := p.validate(structPtr); err != nil {
		return fmt.Errorf("traillog/http/req: %T failed validation: %w", structPtr, err)
	}

	return nil
}
