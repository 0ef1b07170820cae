package hostinfo_test

import (
	"errors"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/dockerlabs/internal/hostinfo"
)

func fixedHost(name string) hostinfo.Lookup {
	return func() (string, error) {
		return name, nil
	}
}

var _ = Describe("Responder", func() {
	Describe("Root", func() {
		It("returns the bare hostname when untagged", func() {
			r := hostinfo.NewResponder(false, fixedHost("worker-7"))

			body, err := r.Root()
			Expect(err).NotTo(HaveOccurred())
			Expect(body).To(Equal("worker-7"))
		})

		It("prefixes the marker when tagged", func() {
			r := hostinfo.NewResponder(true, fixedHost("worker-7"))

			body, err := r.Root()
			Expect(err).NotTo(HaveOccurred())
			Expect(body).To(Equal("D0001 0004 (FROM ACTION): worker-7"))
		})

		It("is byte-identical across calls", func() {
			r := hostinfo.NewResponder(true, fixedHost("worker-7"))

			first, _ := r.Root()
			for i := 0; i < 10; i++ {
				next, err := r.Root()
				Expect(err).NotTo(HaveOccurred())
				Expect(next).To(Equal(first))
			}
		})

		It("looks the hostname up on every call", func() {
			calls := 0
			r := hostinfo.NewResponder(false, func() (string, error) {
				calls++
				return "worker-7", nil
			})

			_, _ = r.Root()
			_, _ = r.Root()
			Expect(calls).To(Equal(2))
		})

		It("falls back to the operating system hostname", func() {
			expected, err := os.Hostname()
			Expect(err).NotTo(HaveOccurred())

			body, err := hostinfo.NewResponder(false, nil).Root()
			Expect(err).NotTo(HaveOccurred())
			Expect(body).To(Equal(expected))
		})

		It("wraps lookup failures in a ResolutionError", func() {
			cause := errors.New("uname failed")
			r := hostinfo.NewResponder(true, func() (string, error) {
				return "", cause
			})

			body, err := r.Root()
			Expect(body).To(BeEmpty())

			var resErr *hostinfo.ResolutionError
			Expect(errors.As(err, &resErr)).To(BeTrue())
			Expect(errors.Is(err, cause)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("uname failed"))
		})

		It("treats an empty hostname as a resolution failure", func() {
			_, err := hostinfo.NewResponder(false, fixedHost("")).Root()

			var resErr *hostinfo.ResolutionError
			Expect(errors.As(err, &resErr)).To(BeTrue())
		})
	})

	Describe("Tagged", func() {
		It("reports the construction flag", func() {
			Expect(hostinfo.NewResponder(true, nil).Tagged()).To(BeTrue())
			Expect(hostinfo.NewResponder(false, nil).Tagged()).To(BeFalse())
		})
	})
})

var _ = Describe("Healthy", func() {
	It("always reports healthy", func() {
		Expect(hostinfo.Healthy()).To(Equal(hostinfo.Health{Status: "healthy"}))
	})
})
