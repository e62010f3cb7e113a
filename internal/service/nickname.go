package service

import "math/rand/v2"

var nicknameAdjectives = []string{
	"행복한", "즐거운", "따뜻한", "설레는", "반가운", "상냥한", "다정한", "포근한", "신나는", "명랑한",
	"용감한", "씩씩한", "활기찬", "자유로운", "평화로운", "소중한", "정직한", "지혜로운", "친절한", "성실한",
}

var nicknameNouns = []string{
	"여행자", "탐험가", "우체부", "편지", "구름", "바람", "햇살", "별빛", "달빛", "나무",
	"꽃잎", "나비", "새", "고양이", "강아지", "친구", "이웃", "소식", "하루", "추억",
}

// RandomNickname builds a friendly display name for accounts created without
// one, e.g. "행복한 여행자".
func RandomNickname() string {
	adjective := nicknameAdjectives[rand.IntN(len(nicknameAdjectives))]
	noun := nicknameNouns[rand.IntN(len(nicknameNouns))]
	return adjective + " " + noun
}
