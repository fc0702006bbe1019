package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_home(t *testing.T) {
	server := startTestServer(t, os.Stdout, testEnv(nil))

	doc := server.GetDoc(t, "/")

	form := doc.Find("form[action='/report']")
	assert.Equal(t, 1, form.Length())
	assert.Equal(t, 1, form.Find("input[name=id]").Length())
	assert.Equal(t, 1, form.Find("input[name=csrf_token]").Length())
	assert.Equal(t, 1, doc.Find("a[href='/report?id=DEMO']").Length())
}

func Test_infoPages(t *testing.T) {
	server := startTestServer(t, os.Stdout, testEnv(nil))

	doc := server.GetDoc(t, "/methodology")
	assert.Contains(t, doc.Find("main").Text(), "ISO 41001")

	doc = server.GetDoc(t, "/standards")
	assert.Contains(t, doc.Find("main").Text(), "ISO 41001")
}

func Test_navHighlightsCurrentPage(t *testing.T) {
	server := startTestServer(t, os.Stdout, testEnv(nil))

	doc := server.GetDoc(t, "/standards")

	assert.Equal(t, "Standards", doc.Find("nav a.active").Text())
}
