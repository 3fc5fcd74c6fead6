package http

import (
	"encoding/xml"
	"net/http"
)

const twimlContentType = "text/xml; charset=utf-8"

// twimlResponse is a messaging response carrying one reply line.
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

func renderTwiML(text string) ([]byte, error) {
	body, err := xml.Marshal(twimlResponse{Message: text})
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

// writeTwiML always answers 200 so the provider does not retry.
func writeTwiML(w http.ResponseWriter, text string) error {
	body, err := renderTwiML(text)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", twimlContentType)
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(body)
	return err
}
