package eci

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	soapEnvelopeNS   = "http://schemas.xmlsoap.org/soap/envelope/"
	maxResponseBytes = 32 << 20
)

// ErrAPI is returned when the vendor API answers with Success=false or a SOAP fault.
var ErrAPI = errors.New("eci api error")

type requestEnvelope struct {
	XMLName xml.Name `xml:"soap:Envelope"`
	SoapNS  string   `xml:"xmlns:soap,attr"`
	Body    struct {
		Content any
	} `xml:"soap:Body"`
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

// ResultStatus is carried by every operation result.
type ResultStatus struct {
	Success       bool     `xml:"Success"`
	ErrorMessages []string `xml:"ErrorMessages>string"`
}

func (s ResultStatus) check(op string) error {
	if s.Success {
		return nil
	}
	msg := strings.Join(s.ErrorMessages, "; ")
	if msg == "" {
		msg = "request was not successful"
	}
	return fmt.Errorf("%w: %s: %s", ErrAPI, op, msg)
}

func (c *Client) soapAction(op string) string {
	ns := c.namespace
	if !strings.HasSuffix(ns, "/") {
		ns += "/"
	}
	return `"` + ns + op + `"`
}

// call posts one SOAP 1.1 request and decodes the <op>Result element into out.
func (c *Client) call(ctx context.Context, op string, request any, out any) error {
	env := requestEnvelope{SoapNS: soapEnvelopeNS}
	env.Body.Content = request

	payload, err := xml.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(append([]byte(xml.Header), payload...)))
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", c.soapAction(op))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", op, err)
	}

	err = decodeResult(bytes.NewReader(body), op, out)
	if resp.StatusCode != http.StatusOK && !errors.Is(err, ErrAPI) {
		return fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}
	return err
}

func decodeResult(r io.Reader, op string, out any) error {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return fmt.Errorf("decode %s response: no %sResult element", op, op)
		}
		if err != nil {
			return fmt.Errorf("decode %s response: %w", op, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "Fault":
			var f soapFault
			if err := dec.DecodeElement(&f, &start); err != nil {
				return fmt.Errorf("decode %s fault: %w", op, err)
			}
			return fmt.Errorf("%w: %s: %s %s", ErrAPI, op, f.Code, f.String)
		case op + "Result":
			if err := dec.DecodeElement(out, &start); err != nil {
				return fmt.Errorf("decode %s result: %w", op, err)
			}
			return nil
		}
	}
}
