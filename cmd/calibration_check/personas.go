package main

import "friendship-match/internal/domain"

// Persona es un usuario guionado: sus mensajes y hacia donde deberia moverse cada rasgo.
// Expect usa +1 (sube) o -1 (baja); los rasgos ausentes no se evaluan.
type Persona struct {
	Name     string
	Messages []string
	Expect   map[domain.Trait]int
}

var personas = []Persona{
	{
		Name: "explorador social",
		Messages: []string{
			"I love going to parties and meeting new people!",
			"Last weekend I went to a concert with a big group of friends",
			"I'm curious about different cultures and I want to travel abroad",
			"Trying new ideas and exploring museums is so exciting",
		},
		Expect: map[domain.Trait]int{domain.Extraversion: 1, domain.Openness: 1},
	},
	{
		Name: "planificador tranquilo",
		Messages: []string{
			"I prefer to stay home and read quietly",
			"I always plan my week and keep a detailed schedule",
			"I recharge best when I am alone and it is quiet",
			"I finish my goals before the deadline and keep my desk tidy",
		},
		Expect: map[domain.Trait]int{domain.Extraversion: -1, domain.Conscientiousness: 1},
	},
	{
		Name: "ayudante ansioso",
		Messages: []string{
			"I worry a lot about my exams and feel anxious",
			"I like helping my friends when they need support",
			"Sometimes I feel overwhelmed and nervous at night",
			"I care about people and I am patient with them",
		},
		Expect: map[domain.Trait]int{domain.Neuroticism: 1, domain.Agreeableness: 1},
	},
	{
		Name: "critico sereno",
		Messages: []string{
			"I'm usually calm and relaxed about things",
			"People who argue all the time are annoying",
			"I stay relaxed even when work gets busy",
			"Honestly most opinions are stupid and I like to compete",
		},
		Expect: map[domain.Trait]int{domain.Neuroticism: -1, domain.Agreeableness: -1},
	},
	{
		Name: "gezgin merakli",
		Messages: []string{
			"Yeni yerler keşfetmeyi çok seviyorum",
			"Arkadaşlarımla dışarı çıkmak ve yeni insanlarla tanışmak bana enerji veriyor",
			"Sanat ve felsefe hakkında konuşmayı severim",
		},
		Expect: map[domain.Trait]int{domain.Openness: 1, domain.Extraversion: 1},
	},
}
