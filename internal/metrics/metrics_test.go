package metrics_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/dockerlabs/internal/metrics"
)

var _ = Describe("Metrics", func() {
	var m *metrics.Metrics

	BeforeEach(func() {
		m = metrics.NewMetrics()
	})

	Describe("RouteLabel", func() {
		It("keeps public routes", func() {
			Expect(metrics.RouteLabel("/")).To(Equal(metrics.RouteRoot))
			Expect(metrics.RouteLabel("/health")).To(Equal(metrics.RouteHealth))
		})

		It("folds everything else into other", func() {
			Expect(metrics.RouteLabel("/nope")).To(Equal(metrics.RouteOther))
			Expect(metrics.RouteLabel("/health/deep")).To(Equal(metrics.RouteOther))
		})
	})

	Describe("RecordRequest", func() {
		It("should count requests per route", func() {
			m.RecordRequest(metrics.RouteRoot, time.Millisecond, 200)
			m.RecordRequest(metrics.RouteRoot, time.Millisecond, 200)
			m.RecordRequest(metrics.RouteHealth, time.Millisecond, 200)

			snap := m.Snapshot("stdlib")
			Expect(snap.TotalRequests).To(Equal(int64(3)))
			Expect(snap.Routes[metrics.RouteRoot].Requests).To(Equal(int64(2)))
			Expect(snap.Routes[metrics.RouteHealth].Requests).To(Equal(int64(1)))
		})

		It("should record response time and status code", func() {
			m.RecordRequest(metrics.RouteRoot, 100*time.Millisecond, 200)
			m.RecordRequest(metrics.RouteRoot, 200*time.Millisecond, 500)

			route := m.Snapshot("stdlib").Routes[metrics.RouteRoot]
			Expect(route.AvgResponse).To(Equal(150 * time.Millisecond))
			Expect(route.StatusCodes[200]).To(Equal(int64(1)))
			Expect(route.StatusCodes[500]).To(Equal(int64(1)))
		})

		It("should calculate percentiles correctly", func() {
			for i := 1; i <= 100; i++ {
				m.RecordRequest(metrics.RouteRoot, time.Duration(i)*time.Millisecond, 200)
			}

			route := m.Snapshot("stdlib").Routes[metrics.RouteRoot]
			Expect(route.P50Response).To(BeNumerically("~", 50*time.Millisecond, 1*time.Millisecond))
			Expect(route.P95Response).To(BeNumerically("~", 95*time.Millisecond, 1*time.Millisecond))
			Expect(route.P99Response).To(BeNumerically("~", 99*time.Millisecond, 1*time.Millisecond))
		})

		It("should limit stored response times to 1000", func() {
			for i := 1; i <= 1500; i++ {
				m.RecordRequest(metrics.RouteRoot, time.Duration(i)*time.Millisecond, 200)
			}

			route := m.Snapshot("stdlib").Routes[metrics.RouteRoot]
			Expect(route.Requests).To(Equal(int64(1500)))
			Expect(route.AvgResponse).To(BeNumerically(">", 500*time.Millisecond))
		})
	})

	Describe("UpdateHealthStatus", func() {
		It("should leave health unset until reported", func() {
			Expect(m.Snapshot("stdlib").Healthy).To(BeNil())
		})

		It("should track health status changes", func() {
			m.UpdateHealthStatus(true)
			Expect(*m.Snapshot("stdlib").Healthy).To(BeTrue())

			m.UpdateHealthStatus(false)
			Expect(*m.Snapshot("stdlib").Healthy).To(BeFalse())
		})
	})

	Describe("Snapshot", func() {
		It("should carry the engine name", func() {
			Expect(m.Snapshot("echo").Engine).To(Equal("echo"))
		})

		It("should include uptime", func() {
			time.Sleep(10 * time.Millisecond)
			Expect(m.Snapshot("stdlib").Uptime).To(BeNumerically(">", 0))
		})

		It("should handle empty metrics", func() {
			snap := m.Snapshot("stdlib")
			Expect(snap.TotalRequests).To(Equal(int64(0)))
			Expect(snap.Routes).To(BeEmpty())
		})

		It("should return independent snapshots", func() {
			m.RecordRequest(metrics.RouteRoot, time.Millisecond, 200)
			snap1 := m.Snapshot("stdlib")

			m.RecordRequest(metrics.RouteRoot, time.Millisecond, 404)
			snap2 := m.Snapshot("stdlib")

			Expect(snap1.TotalRequests).To(Equal(int64(1)))
			Expect(snap1.Routes[metrics.RouteRoot].StatusCodes).NotTo(HaveKey(404))
			Expect(snap2.TotalRequests).To(Equal(int64(2)))
		})
	})
})
