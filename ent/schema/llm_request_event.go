package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LLMRequestEvent is one attempt at generating a career path. Retries are
// separate rows sharing a purpose.
type LLMRequestEvent struct {
	ent.Schema
}

func (LLMRequestEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (LLMRequestEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("provider").
			Comment("Setting that selected the backend: anthropic, openai, gemini, openrouter or mock"),
		field.String("model").
			Comment("Model that served the request, as reported by the provider"),
		field.String("purpose").
			Default("unspecified").
			Comment("Why the call was made, e.g. personalize"),
		field.Int("input_tokens").
			Default(0),
		field.Int("output_tokens").
			Default(0),
		field.Int64("latency_ms").
			Default(0),
		field.Bool("success"),
		field.String("error_kind").
			Default("").
			Comment("rate_limit, rejected, unavailable, invalid_response, max_tokens, timeout or canceled"),
		field.String("error_message").
			Default(""),
		field.Text("request_body").
			Default("").
			Comment("Rendered prompt and schema"),
		field.Text("response_body").
			Default("").
			Comment("Raw structured response"),
	}
}

func (LLMRequestEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("purpose"),
		index.Fields("success", "error_kind"),
	}
}
