package responder

import (
	"context"
	"math/rand"
)

var cannedReplies = []string{
	"That sounds really interesting! I'd love to hear more about your experience with that.",
	"Thanks for sharing! I think we could definitely collaborate on something like that.",
	"That's a great point! Have you considered the technical challenges involved?",
	"I'm impressed by your approach. What tools or frameworks are you using?",
	"That's exactly the kind of innovative thinking I look for in collaborators.",
	"I'd be interested in learning more about your methodology. Could we schedule a call?",
	"That's a fascinating perspective! How do you see this evolving in the next few months?",
	"I think we have some complementary skills. Would you be open to exploring a partnership?",
	"That's really insightful! What's your biggest challenge with this project?",
	"I love your enthusiasm! What's the next step you're planning to take?",
}

var professionalContexts = []string{
	"I'm a software engineer with 5+ years of experience in full-stack development.",
	"I work as a product manager focusing on user experience and growth strategies.",
	"I'm a UX designer passionate about creating intuitive and beautiful interfaces.",
	"I'm a data scientist specializing in machine learning and analytics.",
	"I'm a startup founder looking for technical co-founders and advisors.",
	"I'm a marketing professional with expertise in digital campaigns and brand strategy.",
}

// CannedGenerator picks a uniformly random professional-context sentence and
// reply sentence and concatenates them. Stateless, and never fails.
type CannedGenerator struct{}

// NewCannedGenerator creates the default generator.
func NewCannedGenerator() *CannedGenerator {
	return &CannedGenerator{}
}

// Name returns the provider name.
func (g *CannedGenerator) Name() string {
	return string(ProviderCanned)
}

// Reply returns a randomly composed canned reply.
func (g *CannedGenerator) Reply(ctx context.Context, req *Request) (string, error) {
	reply := cannedReplies[rand.Intn(len(cannedReplies))]
	profile := professionalContexts[rand.Intn(len(professionalContexts))]
	return profile + " " + reply, nil
}
