package quotes_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/fede40136/betting-agent/internal/oddsapi"
	"github.com/fede40136/betting-agent/internal/quotes"
)

var testAllowlist = []string{"Bet365", "Pinnacle", "William Hill", "Betfair"}

func h2hMarket(home, draw, away float64) oddsapi.Market {
	return oddsapi.Market{
		Key: "h2h",
		Outcomes: []oddsapi.Outcome{
			{Name: "Home", Price: home},
			{Name: "Draw", Price: draw},
			{Name: "Away", Price: away},
		},
	}
}

func TestClampRecentLimit(t *testing.T) {
	Convey("Given a requested page size", t, func() {
		Convey("When it is not positive", func() {
			Convey("Then the default applies", func() {
				So(quotes.ClampRecentLimit(0), ShouldEqual, quotes.DefaultRecentLimit)
				So(quotes.ClampRecentLimit(-7), ShouldEqual, quotes.DefaultRecentLimit)
			})
		})

		Convey("When it is within range", func() {
			Convey("Then it passes through", func() {
				So(quotes.ClampRecentLimit(1), ShouldEqual, 1)
				So(quotes.ClampRecentLimit(200), ShouldEqual, 200)
			})
		})

		Convey("When it is above the ceiling", func() {
			Convey("Then it is clamped", func() {
				So(quotes.ClampRecentLimit(201), ShouldEqual, quotes.MaxRecentLimit)
				So(quotes.ClampRecentLimit(10000), ShouldEqual, quotes.MaxRecentLimit)
			})
		})
	})
}

func TestEligibleMarkets(t *testing.T) {
	Convey("Given an event payload with several bookmakers", t, func() {
		ev := oddsapi.Event{
			HomeTeam: "Arsenal",
			AwayTeam: "Chelsea",
			Bookmakers: []oddsapi.Bookmaker{
				{Title: "Bet365", Markets: []oddsapi.Market{h2hMarket(1.9, 3.4, 4.2)}},
				{Title: "Unibet", Markets: []oddsapi.Market{h2hMarket(1.8, 3.5, 4.0)}},
				{Title: "Pinnacle", Markets: []oddsapi.Market{h2hMarket(1.95, 3.3, 4.1)}},
			},
		}

		Convey("When filtering with the default allow-list", func() {
			got := quotes.EligibleMarkets(ev, testAllowlist)

			Convey("Then only allow-listed bookmakers survive, in payload order", func() {
				So(got, ShouldHaveLength, 2)
				So(got[0].Bookmaker, ShouldEqual, "Bet365")
				So(got[1].Bookmaker, ShouldEqual, "Pinnacle")
			})
		})
	})

	Convey("Given a market that is not three-way head-to-head", t, func() {
		Convey("When the market key is not h2h", func() {
			ev := oddsapi.Event{
				Bookmakers: []oddsapi.Bookmaker{{
					Title: "Bet365",
					Markets: []oddsapi.Market{{
						Key: "totals",
						Outcomes: []oddsapi.Outcome{
							{Name: "Over", Price: 1.9},
							{Name: "Under", Price: 1.9},
							{Name: "Push", Price: 10},
						},
					}},
				}},
			}

			Convey("Then it is excluded entirely", func() {
				So(quotes.EligibleMarkets(ev, testAllowlist), ShouldBeEmpty)
			})
		})

		Convey("When the outcome count is not exactly 3", func() {
			two := oddsapi.Event{
				Bookmakers: []oddsapi.Bookmaker{{
					Title: "Bet365",
					Markets: []oddsapi.Market{{
						Key: "h2h",
						Outcomes: []oddsapi.Outcome{
							{Name: "Home", Price: 1.5},
							{Name: "Away", Price: 2.5},
						},
					}},
				}},
			}
			four := oddsapi.Event{
				Bookmakers: []oddsapi.Bookmaker{{
					Title: "Bet365",
					Markets: []oddsapi.Market{{
						Key: "h2h",
						Outcomes: []oddsapi.Outcome{
							{Name: "a", Price: 1}, {Name: "b", Price: 2},
							{Name: "c", Price: 3}, {Name: "d", Price: 4},
						},
					}},
				}},
			}

			Convey("Then no partial snapshot is produced", func() {
				So(quotes.EligibleMarkets(two, testAllowlist), ShouldBeEmpty)
				So(quotes.EligibleMarkets(four, testAllowlist), ShouldBeEmpty)
			})
		})
	})

	Convey("Given a bookmaker with several markets", t, func() {
		ev := oddsapi.Event{
			Bookmakers: []oddsapi.Bookmaker{{
				Title: "Betfair",
				Markets: []oddsapi.Market{
					{Key: "totals", Outcomes: []oddsapi.Outcome{{Price: 1.9}, {Price: 1.9}}},
					h2hMarket(2.1, 3.2, 3.9),
				},
			}},
		}

		Convey("When filtering", func() {
			got := quotes.EligibleMarkets(ev, testAllowlist)

			Convey("Then only the h2h market is selected", func() {
				So(got, ShouldHaveLength, 1)
				So(got[0].Market.Key, ShouldEqual, "h2h")
			})
		})
	})

	Convey("Given an empty allow-list", t, func() {
		ev := oddsapi.Event{
			Bookmakers: []oddsapi.Bookmaker{
				{Title: "Bet365", Markets: []oddsapi.Market{h2hMarket(1.9, 3.4, 4.2)}},
			},
		}

		Convey("Then nothing is eligible", func() {
			So(quotes.EligibleMarkets(ev, nil), ShouldBeEmpty)
		})
	})
}
