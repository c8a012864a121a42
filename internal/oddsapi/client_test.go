package oddsapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/fede40136/betting-agent/internal/oddsapi"
)

func TestSports(t *testing.T) {
	Convey("Given a provider that lists sports", t, func() {
		// o handler roda em outra goroutine; só registra a requisição aqui
		// e as asserções ficam na goroutine do teste
		var gotPath, gotKey string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotKey = r.URL.Query().Get("apiKey")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"key":"soccer_epl","group":"Soccer","title":"EPL","active":true,"has_outrights":false},
				{"key":"soccer_italy_serie_a","group":"Soccer","title":"Serie A","active":true,"has_outrights":false}
			]`))
		}))
		defer srv.Close()

		client := oddsapi.NewClient(oddsapi.Config{APIKey: "test-key", BaseURL: srv.URL})

		Convey("When listing sports", func() {
			sports, err := client.Sports(context.Background())

			Convey("Then the request carries path and credential", func() {
				So(err, ShouldBeNil)
				So(gotPath, ShouldEqual, "/sports")
				So(gotKey, ShouldEqual, "test-key")
			})

			Convey("Then the payload is decoded into the sport catalog", func() {
				So(err, ShouldBeNil)
				So(sports, ShouldHaveLength, 2)
				So(sports[0].Key, ShouldEqual, "soccer_epl")
				So(sports[1].Title, ShouldEqual, "Serie A")
				So(sports[0].Active, ShouldBeTrue)
			})
		})
	})
}

func TestOdds(t *testing.T) {
	Convey("Given a provider that serves h2h odds", t, func() {
		var gotPath string
		var gotQuery map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			q := r.URL.Query()
			gotQuery = map[string]string{
				"regions":    q.Get("regions"),
				"markets":    q.Get("markets"),
				"oddsFormat": q.Get("oddsFormat"),
				"apiKey":     q.Get("apiKey"),
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{
				"id":"ev-1",
				"sport_key":"soccer_epl",
				"commence_time":"2026-09-01T15:00:00Z",
				"home_team":"Arsenal",
				"away_team":"Chelsea",
				"bookmakers":[{
					"key":"bet365",
					"title":"Bet365",
					"markets":[{
						"key":"h2h",
						"outcomes":[
							{"name":"Arsenal","price":2.0},
							{"name":"Draw","price":3.4},
							{"name":"Chelsea","price":4.1}
						]
					}]
				}]
			}]`))
		}))
		defer srv.Close()

		client := oddsapi.NewClient(oddsapi.Config{APIKey: "test-key", BaseURL: srv.URL})

		Convey("When fetching odds", func() {
			events, err := client.Odds(context.Background(), "soccer_epl", "uk", "h2h", "decimal")

			Convey("Then the request carries sport path and required parameters", func() {
				So(err, ShouldBeNil)
				So(gotPath, ShouldEqual, "/sports/soccer_epl/odds")
				So(gotQuery["regions"], ShouldEqual, "uk")
				So(gotQuery["markets"], ShouldEqual, "h2h")
				So(gotQuery["oddsFormat"], ShouldEqual, "decimal")
				So(gotQuery["apiKey"], ShouldEqual, "test-key")
			})

			Convey("Then the events decode with bookmakers and outcomes in order", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 1)
				So(events[0].ID, ShouldEqual, "ev-1")
				So(events[0].HomeTeam, ShouldEqual, "Arsenal")
				So(events[0].Bookmakers[0].Title, ShouldEqual, "Bet365")
				outcomes := events[0].Bookmakers[0].Markets[0].Outcomes
				So(outcomes, ShouldHaveLength, 3)
				So(outcomes[0].Price, ShouldEqual, 2.0)
				So(outcomes[1].Name, ShouldEqual, "Draw")
				So(outcomes[2].Price, ShouldEqual, 4.1)
			})
		})
	})

	Convey("Given a provider that rejects the credential", t, func() {
		body := `{"message":"Usage quota has been reached","error_code":"EXCEEDED_FREQ_LIMIT"}`
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(body))
		}))
		defer srv.Close()

		client := oddsapi.NewClient(oddsapi.Config{APIKey: "bad-key", BaseURL: srv.URL})

		Convey("When fetching odds", func() {
			events, err := client.Odds(context.Background(), "soccer_epl", "uk", "h2h", "decimal")

			Convey("Then the status and body survive verbatim", func() {
				So(events, ShouldBeNil)
				var apiErr *oddsapi.APIError
				So(errors.As(err, &apiErr), ShouldBeTrue)
				So(apiErr.StatusCode, ShouldEqual, http.StatusUnauthorized)
				So(string(apiErr.Body), ShouldEqual, body)
			})

			Convey("Then the body is exposed as parsed JSON when valid", func() {
				var apiErr *oddsapi.APIError
				So(errors.As(err, &apiErr), ShouldBeTrue)
				raw, ok := apiErr.JSONBody()
				So(ok, ShouldBeTrue)
				var decoded map[string]string
				So(json.Unmarshal(raw, &decoded), ShouldBeNil)
				So(decoded["error_code"], ShouldEqual, "EXCEEDED_FREQ_LIMIT")
			})
		})
	})

	Convey("Given a provider that fails with a non-JSON body", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream timeout"))
		}))
		defer srv.Close()

		client := oddsapi.NewClient(oddsapi.Config{APIKey: "test-key", BaseURL: srv.URL})

		Convey("When fetching odds", func() {
			_, err := client.Odds(context.Background(), "soccer_epl", "uk", "h2h", "decimal")

			Convey("Then JSONBody reports the body as not parseable", func() {
				var apiErr *oddsapi.APIError
				So(errors.As(err, &apiErr), ShouldBeTrue)
				So(apiErr.StatusCode, ShouldEqual, http.StatusBadGateway)
				_, ok := apiErr.JSONBody()
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestMissingCredential(t *testing.T) {
	Convey("Given a client without a credential", t, func() {
		called := false
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer srv.Close()

		client := oddsapi.NewClient(oddsapi.Config{BaseURL: srv.URL, Timeout: time.Second})

		Convey("When calling any operation", func() {
			_, sportsErr := client.Sports(context.Background())
			_, oddsErr := client.Odds(context.Background(), "soccer_epl", "uk", "h2h", "decimal")

			Convey("Then the call fails fast without touching the network", func() {
				So(errors.Is(sportsErr, oddsapi.ErrAPIKeyMissing), ShouldBeTrue)
				So(errors.Is(oddsErr, oddsapi.ErrAPIKeyMissing), ShouldBeTrue)
				So(called, ShouldBeFalse)
			})
		})
	})
}
