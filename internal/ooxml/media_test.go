package ooxml

import "testing"

func TestSniffMediaRejectsUnrecognisedFormat(t *testing.T) {
	_, err := SniffMedia([]byte("not an image"))
	if err == nil {
		t.Fatal("expected an error for data none of the registered decoders recognise")
	}
}

func TestSniffMediaRejectsEmptyInput(t *testing.T) {
	_, err := SniffMedia(nil)
	if err == nil {
		t.Fatal("expected an error for empty input")
	}
}
