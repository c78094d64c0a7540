package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/lifecal/internal/birthdate"
	"github.com/san-kum/lifecal/internal/storage"
	"github.com/san-kum/lifecal/internal/timeline"
)

type fixedIntN int

func (f fixedIntN) IntN(int) int { return int(f) }

var _ = Describe("Server", func() {
	var (
		srv   *Server
		kv    *storage.Memory
		start time.Time
		now   time.Time
	)

	do := func(method, target string, form url.Values) *httptest.ResponseRecorder {
		var body *strings.Reader
		if form != nil {
			body = strings.NewReader(form.Encode())
		} else {
			body = strings.NewReader("")
		}
		req := httptest.NewRequest(method, target, body)
		if form != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		return rec
	}

	BeforeEach(func() {
		kv = storage.NewMemory()
		start = time.Date(2000, time.June, 15, 0, 0, 0, 0, time.UTC)
		now = time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

		state, err := timeline.New(start, timeline.ScaleWeek, fixedIntN(20))
		Expect(err).NotTo(HaveOccurred())
		srv = New(state, kv, fixedIntN(5), Options{Now: func() time.Time { return now }})
	})

	Describe("GET /", func() {
		It("renders one row per year with week cells", func() {
			rec := do(http.MethodGet, "/", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			body := rec.Body.String()
			Expect(strings.Count(body, "<tr")).To(Equal(70))
			Expect(strings.Count(body, "<td")).To(Equal(70 * 52))
			Expect(body).To(ContainSubstring(`<span id="duration">70</span>`))
			Expect(body).To(ContainSubstring(`<td class="none w">none w</td>`))
		})
	})

	Describe("GET /scale/{scale}", func() {
		It("switches the scale and redirects", func() {
			rec := do(http.MethodGet, "/scale/m", nil)
			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(srv.State().Scale).To(Equal(timeline.ScaleMonth))

			body := do(http.MethodGet, "/", nil).Body.String()
			Expect(strings.Count(body, "<td")).To(Equal(70 * 12))
		})

		It("rejects unknown scales", func() {
			rec := do(http.MethodGet, "/scale/y", nil)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(srv.State().Scale).To(Equal(timeline.ScaleWeek))
		})
	})

	Describe("POST /birth", func() {
		It("stores a valid birthday and keeps the end date", func() {
			end := srv.State().End
			rec := do(http.MethodPost, "/birth", url.Values{"birthday": {"1990-01-02"}})
			Expect(rec.Code).To(Equal(http.StatusSeeOther))

			st := srv.State()
			Expect(st.Start.Year()).To(Equal(1990))
			Expect(st.End).To(BeTemporally("==", end))

			v, ok, err := kv.Get(context.Background(), birthdate.Key)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("1990-01-02"))
		})

		It("re-prompts on an invalid birthday", func() {
			rec := do(http.MethodPost, "/birth", url.Values{"birthday": {"whenever"}})
			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(rec.Body.String()).To(ContainSubstring("When is your birthday?"))
			Expect(srv.State().Start).To(BeTemporally("==", start))

			_, ok, _ := kv.Get(context.Background(), birthdate.Key)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("POST /death", func() {
		It("rerolls the lifespan from the start date", func() {
			rec := do(http.MethodPost, "/death", nil)
			Expect(rec.Code).To(Equal(http.StatusSeeOther))

			st := srv.State()
			Expect(st.Years).To(Equal(55))
			Expect(st.End).To(BeTemporally("==", time.Date(2055, time.June, 15, 0, 0, 0, 0, time.UTC)))
		})
	})

	Describe("GET /grid.json", func() {
		It("returns the grid", func() {
			rec := do(http.MethodGet, "/grid.json", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))

			var doc struct {
				Scale string `json:"scale"`
				Rows  []struct {
					Year  int      `json:"year"`
					Cells []string `json:"cells"`
				} `json:"rows"`
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &doc)).To(Succeed())
			Expect(doc.Scale).To(Equal("w"))
			Expect(doc.Rows).To(HaveLen(70))
			Expect(doc.Rows[20].Cells).To(HaveEach("maturity"))
			Expect(doc.Rows[30].Cells).To(HaveEach("next"))
		})
	})

	It("answers health checks", func() {
		rec := do(http.MethodGet, "/healthz", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(Equal("ok"))
	})
})
