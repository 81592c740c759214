package model

// Task is one of the onboarding steps shown on the signup page.
type Task string

const (
	TaskEmail   Task = "email"
	TaskWallet  Task = "wallet"
	TaskTwitter Task = "twitter"
	TaskDiscord Task = "discord"
)

var Tasks = []Task{TaskEmail, TaskWallet, TaskTwitter, TaskDiscord}
