// internal/web/pages.go
package web

import (
	"bytes"
	"net/http"

	"career-advisor/internal/form"
)

type optionView struct {
	Value    string
	Label    string
	Selected bool
}

type fieldView struct {
	Name        string
	Label       string
	Placeholder string
	Options     []optionView
	Min         float64
	Max         float64
	Step        string
	Value       string
	Error       string
}

type formPage struct {
	Personal []fieldView
	Academic []fieldView
	Session  *form.Session
	Ranked   []form.RankedPrediction
}

func newFormPage(raw form.RawInput, session *form.Session) formPage {
	build := func(specs []form.FieldSpec) []fieldView {
		views := make([]fieldView, 0, len(specs))
		for _, spec := range specs {
			value := raw[spec.Field]
			v := fieldView{
				Name:        string(spec.Field),
				Label:       spec.Label,
				Placeholder: spec.Placeholder,
				Min:         spec.Min,
				Max:         spec.Max,
				Step:        "any",
				Value:       value,
				Error:       session.Errors[spec.Field],
			}
			if spec.Kind == form.KindHours {
				v.Step = "1"
			}
			for _, o := range spec.Options {
				v.Options = append(v.Options, optionView{Value: o.Value, Label: o.Label, Selected: o.Value == value})
			}
			views = append(views, v)
		}
		return views
	}

	return formPage{
		Personal: build(form.FieldsIn(form.SectionPersonal)),
		Academic: build(form.FieldsIn(form.SectionAcademic)),
		Session:  session,
		Ranked:   form.Rank(session.Predictions),
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index", nil)
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, "form", newFormPage(form.RawInput{}, form.NewSession()))
}

func (s *Server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	raw := form.RawInputFromValues(r.PostForm)

	var session *form.Session
	if r.PostForm.Get("action") == "dismiss" {
		session = form.NewSession()
		session.Dismiss()
	} else {
		session = s.submitter.Submit(r.Context(), sessionID(r), raw)
	}

	s.render(w, "form", newFormPage(raw, session))
}

func (s *Server) render(w http.ResponseWriter, page string, data interface{}) {
	var buf bytes.Buffer
	if err := s.pages[page].ExecuteTemplate(&buf, "base", data); err != nil {
		s.logger.Error("failed to render page", map[string]interface{}{
			"page":  page,
			"error": err,
		})
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
