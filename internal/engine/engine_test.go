package engine_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/dockerlabs/internal/engine"
	"github.com/angeloszaimis/dockerlabs/internal/hostinfo"
)

func worker7() (string, error) {
	return "worker-7", nil
}

func do(h http.Handler, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

var _ = Describe("Kind", func() {
	DescribeTable("Parse",
		func(input string, expected engine.Kind) {
			kind, err := engine.Parse(input)
			Expect(err).NotTo(HaveOccurred())
			Expect(kind).To(Equal(expected))
		},
		Entry("stdlib", "stdlib", engine.KindStdlib),
		Entry("chi", "chi", engine.KindChi),
		Entry("echo", "echo", engine.KindEcho),
		Entry("mixed case and spaces", "  Echo ", engine.KindEcho),
	)

	It("rejects unknown engines", func() {
		_, err := engine.Parse("uvicorn")
		Expect(err).To(HaveOccurred())
	})

	It("marks only echo as accelerated", func() {
		Expect(engine.KindEcho.Accelerated()).To(BeTrue())
		Expect(engine.KindStdlib.Accelerated()).To(BeFalse())
		Expect(engine.KindChi.Accelerated()).To(BeFalse())
	})

	It("refuses to build an unknown kind", func() {
		h, err := engine.New(engine.Kind("gnet"), hostinfo.NewResponder(false, worker7), slog.Default())
		Expect(err).To(HaveOccurred())
		Expect(h).To(BeNil())
	})
})

var _ = Describe("Engines", func() {
	var log *slog.Logger

	BeforeEach(func() {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	})

	for _, kind := range engine.Kinds() {
		Context(string(kind), func() {
			var h http.Handler

			BeforeEach(func() {
				var err error
				h, err = engine.New(kind, hostinfo.NewResponder(kind.Accelerated(), worker7), log)
				Expect(err).NotTo(HaveOccurred())
			})

			It("serves the root greeting", func() {
				rec := do(h, http.MethodGet, "/")
				Expect(rec.Code).To(Equal(http.StatusOK))
				Expect(rec.Header().Get("Content-Type")).To(HavePrefix("text/plain"))

				if kind.Accelerated() {
					Expect(rec.Body.String()).To(Equal("D0001 0004 (FROM ACTION): worker-7"))
				} else {
					Expect(rec.Body.String()).To(Equal("worker-7"))
				}
			})

			It("serves identical root bodies across requests", func() {
				first := do(h, http.MethodGet, "/").Body.String()
				for i := 0; i < 5; i++ {
					Expect(do(h, http.MethodGet, "/").Body.String()).To(Equal(first))
				}
			})

			It("serves the health record", func() {
				rec := do(h, http.MethodGet, "/health")
				Expect(rec.Code).To(Equal(http.StatusOK))
				Expect(rec.Header().Get("Content-Type")).To(HavePrefix("application/json"))
				Expect(rec.Body.String()).To(MatchJSON(`{"status": "healthy"}`))
			})

			It("answers 404 for unknown paths", func() {
				Expect(do(h, http.MethodGet, "/nope").Code).To(Equal(http.StatusNotFound))
			})

			It("answers 405 for other methods on known paths", func() {
				Expect(do(h, http.MethodPost, "/health").Code).To(Equal(http.StatusMethodNotAllowed))
			})

			It("answers 500 when the hostname cannot be resolved", func() {
				failing := hostinfo.NewResponder(kind.Accelerated(), func() (string, error) {
					return "", errors.New("no hostname")
				})
				broken, err := engine.New(kind, failing, log)
				Expect(err).NotTo(HaveOccurred())

				Expect(do(broken, http.MethodGet, "/").Code).To(Equal(http.StatusInternalServerError))
				Expect(do(broken, http.MethodGet, "/health").Code).To(Equal(http.StatusOK))
			})
		})
	}
})
