package llm

import (
	"context"
	"fmt"
)

// Summarizer condenses full analysis reports into short channel messages. It
// satisfies the notification composer's collaborator contract.
type Summarizer struct {
	client Client
}

// NewSummarizer creates a Summarizer over an LLM client.
func NewSummarizer(client Client) *Summarizer {
	return &Summarizer{client: client}
}

// Summarize produces channel-ready message text for one report.
func (s *Summarizer) Summarize(ctx context.Context, reportText, name, code, language string) (string, error) {
	prompt := summaryPrompt(reportText, name, code, language)
	summary, err := s.client.GenerateContent(ctx, prompt, TierLite)
	if err != nil {
		return "", fmt.Errorf("summary generation failed for %s(%s): %w", name, code, err)
	}
	return summary, nil
}

func summaryPrompt(reportText, name, code, language string) string {
	if language == "en" {
		return fmt.Sprintf(`Condense the following stock analysis report into a Telegram
channel message of at most 900 characters. Plain text, short lines, lead with
the key takeaway, end with one risk note. Do not repeat the company name in a
heading; the message already has a title line.

Company: %s (%s)

%s`, name, code, reportText)
	}
	return fmt.Sprintf(`다음 주식 분석 보고서를 900자 이내의 텔레그램 채널 메시지로
요약하세요. 일반 텍스트, 짧은 문장으로 핵심 결론을 먼저 쓰고 마지막에 리스크 한 줄을
덧붙이세요. 제목 줄은 별도로 붙으므로 회사명 제목은 반복하지 마세요.

회사명: %s (%s)

%s`, name, code, reportText)
}
