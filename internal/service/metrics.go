package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	purchasesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chapter_purchases_total",
			Help: "Chapter purchase attempts by outcome",
		},
		[]string{"result"},
	)
	coinsCreditedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "coins_credited_total",
			Help: "Total coins credited from captured payments",
		},
	)
)

func init() {
	prometheus.MustRegister(purchasesTotal)
	prometheus.MustRegister(coinsCreditedTotal)
}
