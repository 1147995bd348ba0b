package llm

import (
	"context"
	"fmt"
)

// Analyst produces per-instrument analysis reports. It satisfies the report
// generator's collaborator contract.
type Analyst struct {
	client Client
}

// NewAnalyst creates an Analyst over an LLM client.
func NewAnalyst(client Client) *Analyst {
	return &Analyst{client: client}
}

// Analyze generates a markdown analysis report for one instrument.
func (a *Analyst) Analyze(ctx context.Context, code, name, referenceDate, language string) (string, error) {
	prompt := analysisPrompt(code, name, referenceDate, language)
	report, err := a.client.GenerateContent(ctx, prompt, TierAdvanced)
	if err != nil {
		return "", fmt.Errorf("analysis generation failed for %s(%s): %w", name, code, err)
	}
	return report, nil
}

func analysisPrompt(code, name, referenceDate, language string) string {
	if language == "en" {
		return fmt.Sprintf(`You are a Korean equity analyst. Write a detailed markdown
analysis report in English for the stock below, as of the reference date.
Cover recent price action, the screening signal context, fundamentals,
catalysts, and risks. Start with a level-1 heading naming the company.

Company: %s
Ticker: %s
Reference date: %s`, name, code, referenceDate)
	}
	return fmt.Sprintf(`당신은 한국 주식 애널리스트입니다. 아래 종목에 대해 기준일 시점의
상세 분석 보고서를 마크다운으로 작성하세요. 최근 주가 흐름, 스크리닝 시그널 배경,
펀더멘털, 모멘텀, 리스크를 다루고, 회사명을 담은 1단계 제목으로 시작하세요.

회사명: %s
종목코드: %s
기준일: %s`, name, code, referenceDate)
}
