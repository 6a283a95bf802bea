package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"schemeagent/internal/llm"
	"schemeagent/internal/logger"
	"schemeagent/internal/model"
)

const letterPrompt = `Write a short, formal application cover letter addressed to the authority running the government scheme "%s".
The applicant is %s, a %s residing in %s.
Scheme description: %s
Mention that supporting documents are attached for verification.
Sign off with the applicant's name and mobile number (%s).
Return only the letter text.
`

const letterTemplate = `To,
The Authority,
%[1]s Department.

Subject: Application for %[1]s

Respected Sir/Madam,

I, %[2]s, am writing to formally apply for the %[1]s. I meet the eligibility criteria as a %[3]s residing in %[4]s.

Please find attached my supporting documents for your verification.

Sincerely,
%[2]s
Mobile: %[5]s`

// LetterDrafter writes application cover letters.
type LetterDrafter struct {
	gen llm.Generator
	options
}

// NewLetterDrafter creates a LetterDrafter backed by gen.
func NewLetterDrafter(gen llm.Generator, opts ...Option) *LetterDrafter {
	return &LetterDrafter{gen: gen, options: newOptions(opts)}
}

// Draft returns a cover letter for p applying to s. When generation fails
// a fixed template is filled in instead.
func (l *LetterDrafter) Draft(ctx context.Context, p *model.Profile, s model.Scheme) string {
	if p == nil {
		p = &model.Profile{}
	}
	mobile := p.MobileNumber
	if mobile == "" {
		mobile = "N/A"
	}
	userType := string(p.UserType)
	if userType == "" {
		userType = string(model.UserTypeOther)
	}

	text := l.gen.GenerateText(ctx, fmt.Sprintf(letterPrompt, s.Name, p.FullName, userType, p.State, s.Description, mobile))
	if text = strings.TrimSpace(text); text != "" && text != llm.FailureText {
		return text
	}

	logger.WithContext(ctx, l.log).Info("cover letter from template", zap.String("scheme", s.Name))
	return fmt.Sprintf(letterTemplate, s.Name, p.FullName, userType, p.State, mobile)
}
