package services

// Services defined in this package:
// - AuthService: registration, login, token rotation, logout, email verification
// - TeamService: team lifecycle, invitations and membership
// - ChatService: chat history, message deletion and read receipts
// - UserService: user and role profile management
