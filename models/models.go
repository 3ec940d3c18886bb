package models

// This file serves as the central export point for all database models
// Import this package to access all model types

// Database schema overview:
// 1. users - Managed by cookie-based authentication; carries job role, resume URL and skills
// 2. interviewers - Virtual interviewer personas with trait scores and a voice agent key
// 3. popular_interviews / behavioral_interviews - Catalog entries grouped by category
// 4. popular_interview_sessions - Append-only log of practice attempts per user
// 5. questions - Reference question bank keyed by job role
// 6. resume_jobs - Job titles and skill lists extracted from an uploaded resume
// 7. refresh_tokens - Hashed long-lived tokens for cookie auth
