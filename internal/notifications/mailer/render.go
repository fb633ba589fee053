package mailer

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

//go:embed templates/*
var templateFS embed.FS

// WelcomeSubject is the subject of the registration email.
const WelcomeSubject = "Bienvenido al Registro Ciudadano - Macuspana"

// Renderer turns notification content into a Message.
type Renderer struct {
	portalURL string
	html      *htmltemplate.Template
	text      *texttemplate.Template
}

func NewRenderer(portalURL string) (*Renderer, error) {
	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}
	return &Renderer{portalURL: portalURL, html: html, text: text}, nil
}

type notificationData struct {
	Subject   string
	Body      string
	Folio     string
	PortalURL string
}

type welcomeData struct {
	Subject   string
	Name      string
	PortalURL string
}

// Notification renders an in-app notification as email. folio may be empty.
func (r *Renderer) Notification(to, subject, body, folio string) (Message, error) {
	data := notificationData{Subject: subject, Body: body, Folio: folio, PortalURL: r.portalURL}
	return r.render(to, subject, "notification", data)
}

func (r *Renderer) Welcome(to, name string) (Message, error) {
	data := welcomeData{Subject: WelcomeSubject, Name: name, PortalURL: r.portalURL}
	return r.render(to, WelcomeSubject, "welcome", data)
}

func (r *Renderer) render(to, subject, name string, data any) (Message, error) {
	var html, text bytes.Buffer
	if err := r.html.ExecuteTemplate(&html, name+".html", data); err != nil {
		return Message{}, fmt.Errorf("render %s html: %w", name, err)
	}
	if err := r.text.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return Message{}, fmt.Errorf("render %s text: %w", name, err)
	}
	return Message{To: to, Subject: subject, Text: text.String(), HTML: html.String()}, nil
}
