package http_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	httpcontroller "github.com/vadim/slack-threads/internal/controller/http"
)

var _ = Describe("SwaggerHandler", func() {
	const doc = "openapi: 3.0.3\ninfo:\n  title: Test\n  version: '1'\npaths: {}\n"

	It("serves the document as YAML and JSON", func() {
		h, err := httpcontroller.NewSwaggerHandler("Test", []byte(doc))
		Expect(err).NotTo(HaveOccurred())

		r := chi.NewRouter()
		h.RegisterRoutes(r)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs/openapi.yaml", nil))
		Expect(w.Body.String()).To(Equal(doc))

		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs/openapi.json", nil))
		Expect(w.Body.String()).To(MatchJSON(`{"openapi":"3.0.3","info":{"title":"Test","version":"1"},"paths":{}}`))

		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs", nil))
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(Equal("text/html; charset=utf-8"))
		Expect(w.Body.String()).To(ContainSubstring("Test - API Documentation"))
	})

	It("rejects an invalid document", func() {
		_, err := httpcontroller.NewSwaggerHandler("Test", []byte("a: [b"))
		Expect(err).To(HaveOccurred())
	})
})
