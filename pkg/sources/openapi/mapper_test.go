package openapi_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-constraintgen/pkg/shape"
	"github.com/goliatone/go-constraintgen/pkg/sources/openapi"
)

const blogDoc = `
openapi: 3.0.3
info:
  title: Blog
  version: 1.0.0
paths:
  /posts:
    post:
      operationId: createPost
      requestBody:
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Post'
      responses:
        '200':
          description: ok
components:
  schemas:
    Post:
      type: object
      required: [title]
      properties:
        title:
          type: string
          minLength: 1
          maxLength: 100
        status:
          type: string
          enum: [DRAFT, PUBLISHED]
        tags:
          type: array
          uniqueItems: true
          maxItems: 10
          items:
            type: string
            pattern: '^[a-z]+$'
        score:
          type: number
          minimum: 0
          maximum: 5
        published:
          type: boolean
    Labels:
      type: object
      minProperties: 1
      additionalProperties:
        type: string
        minLength: 2
`

func mapDoc(t *testing.T, doc string, options ...openapi.MapperOption) *shape.Model {
	t.Helper()
	model, err := openapi.NewMapper(options...).Model(context.Background(), []byte(doc))
	if err != nil {
		t.Fatalf("map document: %v", err)
	}
	return model
}

func mustShape(t *testing.T, m *shape.Model, id shape.ID) *shape.Shape {
	t.Helper()
	s, ok := m.Shape(id)
	if !ok {
		t.Fatalf("shape %s not mapped", id)
	}
	return s
}

func TestMapper_ComponentSchemas(t *testing.T) {
	model := mapDoc(t, blogDoc)

	post := mustShape(t, model, "api#Post")
	if post.Kind != shape.KindStructure {
		t.Fatalf("Post kind = %v", post.Kind)
	}
	var names []string
	for _, mem := range post.Members {
		names = append(names, mem.Name)
	}
	// Properties are keyed by an unordered map in the document, so members
	// come out in sorted name order.
	want := []string{"published", "score", "status", "tags", "title"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("member order mismatch (-want +got):\n%s", diff)
	}
	for _, mem := range post.Members {
		if got := mem.Name == "title"; mem.Required != got {
			t.Errorf("member %q required = %v", mem.Name, mem.Required)
		}
	}

	title := mustShape(t, model, "api#PostTitle")
	if title.Kind != shape.KindString {
		t.Fatalf("title kind = %v", title.Kind)
	}
	lt, ok := title.Traits[0].(shape.LengthTrait)
	if !ok || lt.Min == nil || *lt.Min != 1 || lt.Max == nil || *lt.Max != 100 {
		t.Fatalf("title length trait = %#v", title.Traits)
	}

	status := mustShape(t, model, "api#PostStatus")
	if status.Kind != shape.KindEnum {
		t.Fatalf("status kind = %v", status.Kind)
	}
	et := status.Traits[0].(shape.EnumTrait)
	if diff := cmp.Diff([]string{"DRAFT", "PUBLISHED"}, et.Values); diff != "" {
		t.Fatalf("enum values (-want +got):\n%s", diff)
	}

	score := mustShape(t, model, "api#PostScore")
	if score.Kind != shape.KindNumber {
		t.Fatalf("score kind = %v", score.Kind)
	}
	rt := score.Traits[0].(shape.RangeTrait)
	if rt.Min == nil || *rt.Min != 0 || rt.Max == nil || *rt.Max != 5 {
		t.Fatalf("score range = %#v", rt)
	}

	if b := mustShape(t, model, "api#PostPublished"); b.Kind != shape.KindBoolean {
		t.Fatalf("published kind = %v", b.Kind)
	}
}

func TestMapper_UniqueArrayBecomesSet(t *testing.T) {
	model := mapDoc(t, blogDoc)

	tags := mustShape(t, model, "api#PostTags")
	if tags.Kind != shape.KindSet {
		t.Fatalf("tags kind = %v", tags.Kind)
	}
	if tags.Target != "api#PostTagsMember" {
		t.Fatalf("tags target = %s", tags.Target)
	}
	lt := tags.Traits[0].(shape.LengthTrait)
	if lt.Min != nil || lt.Max == nil || *lt.Max != 10 {
		t.Fatalf("tags length trait = %#v", lt)
	}

	member := mustShape(t, model, "api#PostTagsMember")
	pt := member.Traits[0].(shape.PatternTrait)
	if pt.Pattern != "^[a-z]+$" {
		t.Fatalf("member pattern = %q", pt.Pattern)
	}
}

func TestMapper_AdditionalPropertiesBecomesMap(t *testing.T) {
	model := mapDoc(t, blogDoc)

	labels := mustShape(t, model, "api#Labels")
	if labels.Kind != shape.KindMap {
		t.Fatalf("labels kind = %v", labels.Kind)
	}
	if labels.Key != "api#LabelsKey" || labels.Value != "api#LabelsValue" {
		t.Fatalf("labels key/value = %s / %s", labels.Key, labels.Value)
	}
	lt := labels.Traits[0].(shape.LengthTrait)
	if lt.Min == nil || *lt.Min != 1 {
		t.Fatalf("labels min properties = %#v", lt)
	}
	if key := mustShape(t, model, "api#LabelsKey"); key.Kind != shape.KindString {
		t.Fatalf("map key kind = %v", key.Kind)
	}
	value := mustShape(t, model, "api#LabelsValue")
	if vt := value.Traits[0].(shape.LengthTrait); vt.Min == nil || *vt.Min != 2 {
		t.Fatalf("map value traits = %#v", value.Traits)
	}
}

func TestMapper_RequestBodiesBecomeOperations(t *testing.T) {
	model := mapDoc(t, blogDoc)

	if len(model.Operations) != 1 {
		t.Fatalf("operations = %d, want 1", len(model.Operations))
	}
	op := model.Operations[0]
	if op.ID != "createPost" {
		t.Fatalf("operation id = %s", op.ID)
	}
	// The body schema is a reference, so the input resolves to the
	// component shape rather than a synthesized Input shape.
	if op.Input != "api#Post" {
		t.Fatalf("operation input = %s", op.Input)
	}
}

func TestMapper_InlineRequestBody(t *testing.T) {
	const doc = `
openapi: 3.0.3
info:
  title: Ping
  version: 1.0.0
paths:
  /ping:
    post:
      operationId: ping
      requestBody:
        content:
          application/json:
            schema:
              type: object
              properties:
                message:
                  type: string
      responses:
        '200':
          description: ok
`
	model := mapDoc(t, doc)

	if len(model.Operations) != 1 || model.Operations[0].Input != "api#PingInput" {
		t.Fatalf("operations = %#v", model.Operations)
	}
	input := mustShape(t, model, "api#PingInput")
	if input.Kind != shape.KindStructure || len(input.Members) != 1 {
		t.Fatalf("input shape = %#v", input)
	}
}

func TestMapper_NamespaceOption(t *testing.T) {
	model := mapDoc(t, blogDoc, openapi.WithNamespace("blog"))
	mustShape(t, model, "blog#Post")
}

func TestMapper_RejectsEmptyDocument(t *testing.T) {
	if _, err := openapi.NewMapper().Model(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestMapper_TimestampAndBlobFormats(t *testing.T) {
	const doc = `
openapi: 3.0.3
info:
  title: Files
  version: 1.0.0
paths: {}
components:
  schemas:
    CreatedAt:
      type: string
      format: date-time
    Payload:
      type: string
      format: byte
      maxLength: 1024
`
	model := mapDoc(t, doc)

	if s := mustShape(t, model, "api#CreatedAt"); s.Kind != shape.KindTimestamp {
		t.Fatalf("CreatedAt kind = %v", s.Kind)
	}
	payload := mustShape(t, model, "api#Payload")
	if payload.Kind != shape.KindBlob {
		t.Fatalf("Payload kind = %v", payload.Kind)
	}
	if lt := payload.Traits[0].(shape.LengthTrait); lt.Max == nil || *lt.Max != 1024 {
		t.Fatalf("Payload traits = %#v", payload.Traits)
	}
}
