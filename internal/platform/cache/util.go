package cache

import (
	"time"
)

// sessionCloseHour is the New York hour after which the day's bars are final.
const sessionCloseHour = 20

// TimeUntilSessionClose は次の取引終了時刻（ニューヨーク時間 20:00）までの期間を返します。
func TimeUntilSessionClose(now time.Time) time.Duration {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	now = now.In(loc)

	// 次の20時を計算
	next := time.Date(now.Year(), now.Month(), now.Day(), sessionCloseHour, 0, 0, 0, loc)

	// 今日の20時が既に過ぎている場合は翌日の20時を使用
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}

	return next.Sub(now)
}
