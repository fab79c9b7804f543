/*
 * Copyright (C) 2022 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */
package main

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/netobserv/labeltree/pkg/api"
)

// apiDoc renders parameter structs as markdown, following their yaml, doc and enum tags.
// A doc tag starting with '#' opens a section; other tagged fields are listed under their parent.
type apiDoc struct {
	out io.Writer
}

func pad(depth int) string {
	return strings.Repeat(" ", 4*depth)
}

func yamlName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get(api.TagYaml), ",")
	if name == "" {
		return f.Name
	}
	return name
}

// render lists the fields of t, one level below depth. Pointers, slices and maps are
// documented through their element type.
func (d *apiDoc) render(t reflect.Type, depth int) {
	for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice || t.Kind() == reflect.Map {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < t.NumField(); i++ {
		d.field(t.Field(i), depth)
	}
}

func (d *apiDoc) field(f reflect.StructField, depth int) {
	doc := f.Tag.Get(api.TagDoc)
	if doc == "" {
		return
	}
	name := yamlName(f)
	if enum := f.Tag.Get(api.TagEnum); enum != "" {
		fmt.Fprintf(d.out, "%s %s: (enum) %s\n", pad(depth+1), name, doc)
		d.render(api.GetEnumReflectionTypeByFieldName(enum), depth+1)
		return
	}
	if strings.HasPrefix(doc, "#") {
		fmt.Fprintf(d.out, "\n%s\n<pre>\n%s %s:\n", doc, pad(depth), name)
		d.render(f.Type, depth)
		fmt.Fprint(d.out, "</pre>")
		return
	}
	fmt.Fprintf(d.out, "%s %s: %s\n", pad(depth+1), name, doc)
	d.render(f.Type, depth+1)
}

func main() {
	(&apiDoc{out: os.Stdout}).render(reflect.TypeOf(api.API{}), 0)
	fmt.Println()
}
