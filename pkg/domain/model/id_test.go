package model_test

import (
	"strconv"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/magento-oaa/pkg/domain/model"
)

func TestDecodeID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     string
		fallback bool
	}{
		{name: "numeric id", input: "MTIz", want: "123"},
		{name: "company id", input: "Mg==", want: "2"},
		{name: "not base64", input: "not-base64!", want: "not-base64!", fallback: true},
		{name: "bad padding", input: "MTI", want: "MTI", fallback: true},
		{name: "binary payload", input: "//79", want: "//79", fallback: true},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.DecodeID(tt.input)
			gt.Value(t, got.Value).Equal(tt.want)
			gt.Value(t, got.Fallback).Equal(tt.fallback)
		})
	}
}

func TestDecodeIDRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 7, 42, 1000, 99999, 1234567890} {
		s := strconv.Itoa(n)
		got := model.DecodeID(model.EncodeID(s))
		gt.Value(t, got.Value).Equal(s)
		gt.Bool(t, got.Fallback).False()
	}
}
