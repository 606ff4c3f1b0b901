// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import "github.com/AccelByte/extend-battleground-manager/pkg/constants"

// HolidayID identifies a calendar event.
type HolidayID uint32

const (
	HolidayNone         HolidayID = 0
	HolidayCallToArmsAV HolidayID = 283
	HolidayCallToArmsWG HolidayID = 284
	HolidayCallToArmsAB HolidayID = 285
	HolidayCallToArmsES HolidayID = 353
	HolidayCallToArmsSA HolidayID = 400
	HolidayCallToArmsIC HolidayID = 420
	HolidayCallToArmsTP HolidayID = 435
	HolidayCallToArmsBG HolidayID = 436
)

var weekendHolidays = map[TypeID]HolidayID{
	TypeID(constants.TypeAlteracV):   HolidayCallToArmsAV,
	TypeID(constants.TypeEyeOfStorm): HolidayCallToArmsES,
	TypeID(constants.TypeWarsong):    HolidayCallToArmsWG,
	TypeID(constants.TypeStrand):     HolidayCallToArmsSA,
	TypeID(constants.TypeArathi):     HolidayCallToArmsAB,
	TypeID(constants.TypeIsleConq):   HolidayCallToArmsIC,
	TypeID(constants.TypeTwinPeaks):  HolidayCallToArmsTP,
	TypeID(constants.TypeGilneas):    HolidayCallToArmsBG,
}

// WeekendHoliday returns the call to arms event of a type, or HolidayNone.
func WeekendHoliday(typeID TypeID) HolidayID {
	if holiday, ok := weekendHolidays[typeID]; ok {
		return holiday
	}
	return HolidayNone
}

// TypeForWeekendHoliday is the inverse of WeekendHoliday.
func TypeForWeekendHoliday(holiday HolidayID) TypeID {
	for typeID, h := range weekendHolidays {
		if h == holiday {
			return typeID
		}
	}
	return TypeNone
}
