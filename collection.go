package apidoc

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// CollectionSchema is the collection format version written.
const CollectionSchema = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"

// CollectionOptions configures the collection and environment documents.
type CollectionOptions struct {
	Name        string // display name of both documents
	Description string
	BaseURL     string // value of the base_url variable; requests use {{base_url}}
	Locale      string // default of the Language variable
}

// Collection is an importable request collection.
type Collection struct {
	Variables []KeyValue         `json:"variables"`
	Info      CollectionInfo     `json:"info"`
	Item      []CollectionFolder `json:"item"`
}

// CollectionInfo describes a collection.
type CollectionInfo struct {
	Name        string `json:"name"`
	PostmanID   string `json:"_postman_id"`
	Description string `json:"description"`
	Schema      string `json:"schema"`
}

// CollectionFolder holds the requests of one resource group.
type CollectionFolder struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Item        []CollectionItem `json:"item"`
}

// CollectionItem is one request with its optional scripts.
type CollectionItem struct {
	Name    string  `json:"name"`
	Event   []Event `json:"event,omitempty"`
	Request Request `json:"request"`
}

// Request is the request part of an item.
type Request struct {
	URL         string     `json:"url"`
	Method      string     `json:"method"`
	Auth        Auth       `json:"auth"`
	Header      []KeyValue `json:"header"`
	Body        *Body      `json:"body,omitempty"`
	Description string     `json:"description"`
}

// Auth is a request's authentication block.
type Auth struct {
	Type   string     `json:"type"`
	Bearer []KeyValue `json:"bearer,omitempty"`
}

// KeyValue is a key/value pair used by headers, variables and auth.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
}

// Body is a request body.
type Body struct {
	Mode       string      `json:"mode"`
	FormData   []FormParam `json:"formdata,omitempty"`
	URLEncoded []FormParam `json:"urlencoded,omitempty"`
}

// FormParam is one body field.
type FormParam struct {
	Key         string `json:"key"`
	Value       string `json:"value,omitempty"`
	Src         string `json:"src,omitempty"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// Event attaches a script to a request lifecycle event.
type Event struct {
	Listen string `json:"listen"`
	Script Script `json:"script"`
}

// Script is a request script.
type Script struct {
	Type string   `json:"type"`
	Exec []string `json:"exec"`
}

// Environment is the variables document companion to a collection.
type Environment struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Values []EnvValue `json:"values"`
	Scope  string     `json:"_postman_variable_scope"`
}

// EnvValue is one environment variable.
type EnvValue struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Type    string `json:"type"`
	Enabled bool   `json:"enabled"`
}

// Auth lifecycle routes, recognized by URI suffix.
const (
	authLogin   = "auth/login"
	authRefresh = "auth/refresh"
	authLogout  = "auth/logout"
)

// credentialVars are the body parameters of login and refresh requests that
// are replaced by environment variable references.
var credentialVars = []string{"email", "password", "refresh_token"}

var captureTokensScript = []string{
	"var body = pm.response.json();",
	"var data = body.data || body;",
	"if (data.access_token) { pm.environment.set(\"access_token\", data.access_token); }",
	"if (data.refresh_token) { pm.environment.set(\"refresh_token\", data.refresh_token); }",
}

var clearTokensScript = []string{
	"pm.environment.set(\"access_token\", \"\");",
	"pm.environment.set(\"refresh_token\", \"\");",
}

// CollectionWriter turns grouped route records into a collection and an
// environment document.
type CollectionWriter struct {
	groups []RouteDocGroup
	opts   CollectionOptions
}

// NewCollectionWriter creates a CollectionWriter.
func NewCollectionWriter(groups []RouteDocGroup, opts CollectionOptions) *CollectionWriter {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost"
	}
	if opts.Locale == "" {
		opts.Locale = "en"
	}
	return &CollectionWriter{groups: groups, opts: opts}
}

// Collection builds the collection document.
func (w *CollectionWriter) Collection() Collection {
	c := Collection{
		Variables: []KeyValue{},
		Info: CollectionInfo{
			Name:        w.opts.Name,
			PostmanID:   uuid.NewString(),
			Description: w.opts.Description,
			Schema:      CollectionSchema,
		},
		Item: make([]CollectionFolder, 0, len(w.groups)),
	}

	for _, g := range w.groups {
		folder := CollectionFolder{Name: g.Name, Item: make([]CollectionItem, 0, len(g.Routes))}
		for _, d := range g.Routes {
			folder.Item = append(folder.Item, w.item(d))
		}
		c.Item = append(c.Item, folder)
	}
	return c
}

func (w *CollectionWriter) item(d RouteDoc) CollectionItem {
	url := "{{base_url}}/" + strings.TrimLeft(d.URI, "/")

	name := d.Title
	if name == "" {
		name = url
	}

	auth := Auth{Type: "noauth"}
	if d.Authenticated {
		auth = Auth{
			Type:   "bearer",
			Bearer: []KeyValue{{Key: "token", Value: "{{access_token}}", Type: "string"}},
		}
	}

	header := []KeyValue{{Key: "Accept", Value: "application/json"}}
	if len(d.Parameters) > 0 {
		ct := "application/x-www-form-urlencoded"
		if d.HasFileParameter {
			ct = "multipart/form-data"
		}
		header = append(header, KeyValue{Key: "Content-Type", Value: ct})
	}
	header = append(header, KeyValue{Key: "Language", Value: "{{Language}}"})

	lifecycle := authLifecycle(d.URI)

	it := CollectionItem{
		Name: name,
		Request: Request{
			URL:         url,
			Method:      d.Method(),
			Auth:        auth,
			Header:      header,
			Body:        w.body(d, lifecycle == authLogin || lifecycle == authRefresh),
			Description: d.Description,
		},
	}

	switch lifecycle {
	case authLogin, authRefresh:
		it.Event = []Event{testScript(captureTokensScript)}
	case authLogout:
		it.Event = []Event{testScript(clearTokensScript)}
	}
	return it
}

func (w *CollectionWriter) body(d RouteDoc, credentials bool) *Body {
	if len(d.Parameters) == 0 {
		return nil
	}

	fields := make([]FormParam, 0, len(d.Parameters))
	for _, p := range d.Parameters {
		f := FormParam{
			Key:         p.Name,
			Type:        "text",
			Description: p.Description,
			Enabled:     true,
		}
		switch {
		case credentials && slices.Contains(credentialVars, p.Name):
			f.Value = "{{" + p.Name + "}}"
		case p.Type == "file":
			f.Type = "file"
		default:
			f.Value = exampleString(p.Value)
		}
		fields = append(fields, f)
	}

	if d.HasFileParameter {
		return &Body{Mode: "formdata", FormData: fields}
	}
	return &Body{Mode: "urlencoded", URLEncoded: fields}
}

// Environment builds the environment document.
func (w *CollectionWriter) Environment() Environment {
	vars := []struct{ key, value, typ string }{
		{"base_url", strings.TrimRight(w.opts.BaseURL, "/"), "default"},
		{"Language", w.opts.Locale, "default"},
		{"access_token", "", "secret"},
		{"refresh_token", "", "secret"},
		{"email", "", "default"},
		{"password", "", "secret"},
	}

	env := Environment{
		ID:     uuid.NewString(),
		Name:   w.opts.Name,
		Values: make([]EnvValue, 0, len(vars)),
		Scope:  "environment",
	}
	for _, v := range vars {
		env.Values = append(env.Values, EnvValue{Key: v.key, Value: v.value, Type: v.typ, Enabled: true})
	}
	return env
}

// MarshalCollection encodes the collection as indented JSON.
func (w *CollectionWriter) MarshalCollection() ([]byte, error) {
	return json.MarshalIndent(w.Collection(), "", "    ")
}

// MarshalEnvironment encodes the environment as indented JSON.
func (w *CollectionWriter) MarshalEnvironment() ([]byte, error) {
	return json.MarshalIndent(w.Environment(), "", "    ")
}

// authLifecycle returns the auth lifecycle suffix uri ends with, or "".
func authLifecycle(uri string) string {
	uri = strings.TrimRight(uri, "/")
	for _, s := range []string{authLogin, authRefresh, authLogout} {
		if uri == s || strings.HasSuffix(uri, "/"+s) {
			return s
		}
	}
	return ""
}

func testScript(exec []string) Event {
	return Event{
		Listen: "test",
		Script: Script{Type: "text/javascript", Exec: exec},
	}
}

// exampleString formats an example value for a form field.
func exampleString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
