package service

import (
	"context"
	"math/rand/v2"
	"strings"
)

const (
	StyleFriendly  = "friendly"
	StyleTechnical = "technical"
	StyleConcise   = "concise"
)

type keywordResponse struct {
	keyword  string
	response string
}

const sslResponse = "For SSL/TLS, use Full (strict) mode so traffic stays encrypted all the way to your origin, and make sure the origin certificate is valid and not expired. Edge certificates are issued automatically for proxied hostnames."

// El orden importa: gana la primera palabra clave que aparezca en el mensaje.
var keywordResponses = []keywordResponse{
	{keyword: "ssl", response: sslResponse},
	{keyword: "certificate", response: sslResponse},
	{keyword: "performance", response: "To improve performance, enable caching for static assets, send sensible Cache-Control headers and turn on compression. Serving content from the edge removes most round trips to your origin."},
	{keyword: "billing", response: "For billing questions, the Billing section of your dashboard lists invoices, payment methods and plan details. If a charge looks wrong, open a ticket and the billing team will review it."},
	{keyword: "dns", response: "DNS changes can take up to 24-48 hours to propagate, although proxied records usually update within minutes. Check that your nameservers match the ones shown in your dashboard."},
	{keyword: "llama", response: "Workers AI supports Llama models that run directly on the edge network with optimized inference."},
	{keyword: "workflow", response: "Workflows coordinate complex operations across services with built-in retries and error handling."},
	{keyword: "memory", response: "Use KV for simple key-value storage or Durable Objects for transactional state management."},
	{keyword: "voice", response: "Process voice input with the Web Speech API in the browser, then send the text to Workers for AI processing."},
	{keyword: "deploy", response: "Deploy your assistant globally in seconds with wrangler deploy, or through CI/CD with Pages."},
	{keyword: "cost", response: "Workers AI pricing is per inference, with a generous free tier for development and testing."},
}

var defaultResponses = []string{
	"Thanks for reaching out! Could you share a bit more detail so I can point you in the right direction?",
	"I can help with SSL, performance, DNS and billing questions. What are you working on?",
	"Happy to help. Can you describe what you expected to happen and what you are seeing instead?",
	"Good question. Tell me a little about your setup and I will walk you through the next steps.",
}

var styleResponses = map[string][]string{
	StyleFriendly: {
		"I'd be happy to help with that! Workers AI makes running ML models super easy.",
		"That's a great question! Let me explain how the platform handles this...",
		"I can definitely help you with that! The edge network is perfect for low-latency AI.",
		"Awesome question! Here's how you can implement that with Workers...",
		"I understand what you're asking! Let me break this down for you...",
	},
	StyleTechnical: {
		"Workers AI provides serverless inference at the edge with sub-50ms latency globally.",
		"Durable Objects offer strongly consistent storage with transactional guarantees for state management.",
		"The Workers runtime executes your code in isolated V8 contexts across 300+ global locations.",
		"KV storage provides eventually consistent key-value storage with low-latency read access.",
		"Workflows orchestrate complex operations across multiple Workers with guaranteed execution.",
	},
	StyleConcise: {
		"Workers AI runs models at the edge. Low latency, global scale.",
		"Use Durable Objects for consistent state. KV for simple storage.",
		"Workers handle logic. Pages serve frontend. All globally distributed.",
		"Voice input via Web Speech API. Process with Workers AI.",
		"Memory: KV for simple, Durable Objects for complex state.",
	},
}

// CannedResponder responde desde tablas fijas, sin inferencia.
type CannedResponder struct {
	pick func(n int) int
}

func NewCannedResponder() *CannedResponder {
	return &CannedResponder{pick: rand.IntN}
}

// NewCannedResponderWithPicker permite fijar la eleccion del pool en tests.
func NewCannedResponderWithPicker(pick func(n int) int) *CannedResponder {
	if pick == nil {
		pick = rand.IntN
	}
	return &CannedResponder{pick: pick}
}

func (r *CannedResponder) Respond(_ context.Context, req ResponseRequest) string {
	if resp, ok := MatchKeyword(req.Message); ok {
		return resp
	}

	pool := defaultResponses
	if style := strings.ToLower(strings.TrimSpace(req.Style)); style != "" {
		pool = styleResponses[StyleFriendly]
		if p, ok := styleResponses[style]; ok {
			pool = p
		}
	}
	return pool[r.pick(len(pool))]
}

// MatchKeyword devuelve la respuesta de la primera palabra clave contenida en el mensaje.
func MatchKeyword(message string) (string, bool) {
	lower := strings.ToLower(message)
	for _, kr := range keywordResponses {
		if strings.Contains(lower, kr.keyword) {
			return kr.response, true
		}
	}
	return "", false
}

// KnownStyle reporta si el estilo tiene pool propio.
func KnownStyle(style string) bool {
	_, ok := styleResponses[strings.ToLower(strings.TrimSpace(style))]
	return ok
}
