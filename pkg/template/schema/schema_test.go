package schema

import (
	"io/fs"
	"strings"
	"testing"
)

const validDoc = `<?xml version="1.0"?>
<template xmlns="http://schemas.sulu.io/template/template">
  <key>overview</key>
  <view>page.html.twig</view>
  <controller>Default:index</controller>
  <cacheLifetime>2400</cacheLifetime>
  <properties>
    <property name="title" type="text_line" maxOccurs="unbounded" mandatory="true">
      <tag name="sulu.node.name" priority="1"/>
      <params><param name="placeholder" value="Title"/></params>
    </property>
    <section name="extra">
      <properties>
        <property name="note" type="text_area"/>
      </properties>
    </section>
  </properties>
</template>`

func TestCompiled(t *testing.T) {
	first, err := Compiled()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	second, err := Compiled()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if first != second {
		t.Fatalf("expected the compiled schema to be cached")
	}
}

func TestValidate_Valid(t *testing.T) {
	issues, err := Validate(strings.NewReader(validDoc))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestValidate_ScalarsOptional(t *testing.T) {
	doc := strings.Replace(validDoc, "<cacheLifetime>2400</cacheLifetime>", "", 1)
	issues, err := Validate(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("missing scalar fields are left to the reader, got %v", issues)
	}
}

func TestValidate_Invalid(t *testing.T) {
	cases := map[string]string{
		"missing type":      strings.Replace(validDoc, `name="title" type="text_line"`, `name="title"`, 1),
		"unknown element":   strings.Replace(validDoc, "<key>overview</key>", "<key>overview</key><unknown/>", 1),
		"bad maxOccurs":     strings.Replace(validDoc, `maxOccurs="unbounded"`, `maxOccurs="many"`, 1),
		"missing container": strings.Replace(strings.Replace(validDoc, "<properties>", "", 1), "</properties>\n</template>", "</template>", 1),
		"wrong namespace":   strings.Replace(validDoc, "http://schemas.sulu.io/template/template", "http://example.com/other", 1),
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			issues, err := Validate(strings.NewReader(doc))
			if err == nil && len(issues) == 0 {
				t.Fatalf("expected validation to fail")
			}
			for _, issue := range issues {
				if issue.Message == "" {
					t.Fatalf("issue without message: %#v", issue)
				}
			}
		})
	}
}

func TestFS(t *testing.T) {
	data, err := fs.ReadFile(FS(), Path)
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if !strings.Contains(string(data), Namespace) {
		t.Fatalf("schema does not declare the template namespace")
	}
}

func TestIssueString(t *testing.T) {
	issue := Issue{Message: "boom", Path: "/template/key", Line: 3, Column: 5}
	if got := issue.String(); got != "3:5: boom (/template/key)" {
		t.Fatalf("unexpected format %q", got)
	}
}
