// Package metrics holds the Prometheus instruments exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Logins counts login attempts by user type and outcome.
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catechism_logins_total",
		Help: "Login attempts by user type and outcome.",
	}, []string{"user_type", "outcome"})

	// AttendanceMarks counts ledger writes by method.
	AttendanceMarks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catechism_attendance_marks_total",
		Help: "Attendance records written, by method.",
	}, []string{"method"})

	// QRScans counts scan attempts by outcome.
	QRScans = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catechism_qr_scans_total",
		Help: "QR scan attempts by outcome.",
	}, []string{"outcome"})
)
