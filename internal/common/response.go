package common

import (
	"encoding/json"
	"net/http"
)

type ResponseType string

const (
	ResponseTypeObject ResponseType = "object"
	ResponseTypeArray  ResponseType = "array"
	ResponseTypeError  ResponseType = "error"
)

type AddressResponse struct {
	Address string `json:"address"`
}

type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// Response is the default response object
type Response struct {
	// The response type
	ResponseType ResponseType `json:"response_type"`
	Object       any          `json:"object,omitempty"`
	Array        any          `json:"array,omitempty"`
	Meta         any          `json:"meta,omitempty"`
	Error        string       `json:"error,omitempty"`
}

func Body(w http.ResponseWriter, body any, meta any) error {
	return StatusBody(w, http.StatusOK, body, meta)
}

// StatusBody writes an object response with the given status code
func StatusBody(w http.ResponseWriter, status int, body any, meta any) error {
	return write(w, status, &Response{
		ResponseType: ResponseTypeObject,
		Object:       body,
		Meta:         meta,
	})
}

func BodyMultiple(w http.ResponseWriter, body any, meta any) error {
	return write(w, http.StatusOK, &Response{
		ResponseType: ResponseTypeArray,
		Array:        body,
		Meta:         meta,
	})
}

// ErrorBody writes an error response with the given status code
func ErrorBody(w http.ResponseWriter, status int, err error) error {
	return write(w, status, &Response{
		ResponseType: ResponseTypeError,
		Error:        err.Error(),
	})
}

func write(w http.ResponseWriter, status int, resp *Response) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)

	return nil
}
