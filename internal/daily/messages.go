package daily

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	for _, tag := range []language.Tag{language.English, language.AmericanEnglish, language.BritishEnglish} {
		_ = message.SetString(tag, MsgKeyClaimed, "Day %d reward claimed! Current streak: %d days")
		_ = message.SetString(tag, MsgKeyMilestone, "Day %d reward claimed! %d day streak bonus unlocked!")
		_ = message.SetString(tag, MsgKeyAlreadyClaimed, "Daily reward already claimed today. Come back tomorrow!")
	}
}

func claimMessage(p *message.Printer, day, streak int, milestone bool) string {
	if milestone {
		return p.Sprintf(MsgKeyMilestone, day, streak)
	}
	return p.Sprintf(MsgKeyClaimed, day, streak)
}
