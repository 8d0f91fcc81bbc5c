package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus_MapsKinds(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad date"), http.StatusBadRequest},
		{RateLimited("slow down", 10), http.StatusTooManyRequests},
		{Upstream("freebusy", errors.New("503")), http.StatusInternalServerError},
		{NotFound("nope"), http.StatusNotFound},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestKindOf_SeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("booking: %w", Validation("Invalid email"))
	if KindOf(err) != KindValidation {
		t.Fatalf("expected validation kind, got %s", KindOf(err))
	}
}

func TestUpstream_MessageIncludesCause(t *testing.T) {
	err := Upstream("calendar freebusy", errors.New("googleapi: Error 403"))
	if got := err.Error(); got != "calendar freebusy: googleapi: Error 403" {
		t.Fatalf("unexpected message %q", got)
	}
}
