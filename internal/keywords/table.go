package keywords

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// GenericTerms are used when a job group is unknown or AI expansion fails.
var GenericTerms = []string{"채용", "취업", "일자리"}

// PaddingTerms top up a keyword set that is still too small.
var PaddingTerms = []string{"채용 공고", "신입 채용", "경력 채용"}

// DefaultTable maps a job group to its core search terms.
var DefaultTable = map[string][]string{
	"개발": {
		"개발자 채용", "백엔드 채용", "프론트엔드 채용", "IT 채용",
		"소프트웨어 개발자", "신입 개발자", "개발자 공채", "AI 개발자",
	},
	"데이터": {
		"데이터 분석가 채용", "데이터 엔지니어", "데이터 사이언티스트", "AI 인재",
		"빅데이터 채용",
	},
	"디자인": {
		"디자이너 채용", "UX 디자이너", "UI 디자인 채용", "브랜드 디자이너",
	},
	"기획": {
		"서비스 기획자", "PM 채용", "프로덕트 매니저", "기획자 채용",
	},
	"마케팅": {
		"마케터 채용", "디지털 마케팅", "퍼포먼스 마케터", "브랜드 마케팅", "광고 업계 채용",
	},
	"영업": {
		"영업직 채용", "B2B 영업", "영업 관리", "세일즈 채용",
	},
	"경영지원": {
		"인사 담당자 채용", "재무 회계 채용", "총무 채용", "경영지원 채용",
	},
	"금융": {
		"금융권 채용", "은행 공채", "증권사 채용", "핀테크 채용", "보험사 채용",
	},
	"의료": {
		"간호사 채용", "병원 채용", "의료기기 채용", "제약사 채용",
	},
	"교육": {
		"교사 채용", "강사 채용", "에듀테크 채용", "교육 업계",
	},
	"생산": {
		"생산직 채용", "제조업 채용", "품질관리 채용", "공장 채용",
	},
}

// groupAliases maps alternate group names onto DefaultTable keys.
var groupAliases = map[string]string{
	"it":          "개발",
	"dev":         "개발",
	"development": "개발",
	"engineering": "개발",
	"개발자":         "개발",
	"data":        "데이터",
	"design":      "디자인",
	"planning":    "기획",
	"marketing":   "마케팅",
	"sales":       "영업",
	"finance":     "금융",
	"hr":          "경영지원",
	"인사":          "경영지원",
}

// lookup returns the core terms for a group and whether the group is known.
func lookup(table map[string][]string, group string) ([]string, bool) {
	g := norm.NFC.String(strings.TrimSpace(group))
	if terms, ok := table[g]; ok {
		return terms, true
	}
	if alias, ok := groupAliases[strings.ToLower(g)]; ok {
		if terms, ok := table[alias]; ok {
			return terms, true
		}
	}
	return nil, false
}
