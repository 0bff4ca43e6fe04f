package metrics

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TaskClaims = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coinrush_task_claims_total",
		Help: "Successful task reward claims",
	})
	DailyBonuses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coinrush_daily_bonuses_total",
		Help: "Successful daily bonus claims",
	})
	CouponRedemptions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coinrush_coupon_redemptions_total",
		Help: "Successful coupon redemptions",
	})
	GameCredits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coinrush_game_credits_total",
		Help: "Mini-game reward credits",
	})
	Withdrawals = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coinrush_withdrawals_total",
		Help: "Withdrawal requests by lifecycle event",
	}, []string{"event"}) // requested | approved | rejected
)

func init() {
	prometheus.MustRegister(TaskClaims, DailyBonuses, CouponRedemptions, GameCredits, Withdrawals)
}

// Serve exposes /metrics on its own listener so scraping stays off the API
// port.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("metrics listener error: %v", err)
		}
	}()
}
