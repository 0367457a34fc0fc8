package db

// Timestamps are stored as fixed-width UTC text (see Now) so that
// lexical ORDER BY matches chronological order on every engine.

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT UNIQUE NOT NULL,
  password_hash TEXT NOT NULL,
  full_name TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'student',
  stream TEXT,
  class_level INTEGER,
  subjects TEXT,
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS self_assessments (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id),
  subject TEXT NOT NULL,
  topic TEXT NOT NULL,
  level TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  UNIQUE(user_id, subject, topic)
);

CREATE TABLE IF NOT EXISTS books (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  author TEXT NOT NULL,
  stream TEXT NOT NULL,
  class_level INTEGER NOT NULL,
  subject TEXT NOT NULL,
  topic TEXT NOT NULL,
  summary TEXT,
  content_url TEXT,
  tags TEXT,
  uploaded_by TEXT REFERENCES users(id),
  status TEXT NOT NULL DEFAULT 'pending',
  verified_by TEXT,
  verified_at TEXT,
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS videos (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  teacher_name TEXT NOT NULL,
  stream TEXT NOT NULL,
  class_level INTEGER NOT NULL,
  subject TEXT NOT NULL,
  topic TEXT NOT NULL,
  video_url TEXT,
  duration INTEGER,
  difficulty TEXT NOT NULL,
  description TEXT,
  tags TEXT,
  uploaded_by TEXT REFERENCES users(id),
  status TEXT NOT NULL DEFAULT 'pending',
  verified_by TEXT,
  verified_at TEXT,
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS quizzes (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  stream TEXT NOT NULL,
  class_level INTEGER NOT NULL,
  subject TEXT NOT NULL,
  topic TEXT NOT NULL,
  difficulty TEXT NOT NULL,
  questions TEXT NOT NULL,
  created_by TEXT REFERENCES users(id),
  status TEXT NOT NULL DEFAULT 'pending',
  verified_by TEXT,
  verified_at TEXT,
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS quiz_attempts (
  id TEXT PRIMARY KEY,
  quiz_id TEXT NOT NULL REFERENCES quizzes(id),
  user_id TEXT NOT NULL REFERENCES users(id),
  answers TEXT NOT NULL,
  score REAL NOT NULL,
  completed_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS chat_sessions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id),
  subject TEXT,
  topic TEXT,
  context_type TEXT NOT NULL DEFAULT 'doubt',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS chat_messages (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL REFERENCES chat_sessions(id),
  role TEXT NOT NULL,
  content TEXT NOT NULL,
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS topic_progress (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id),
  stream TEXT NOT NULL,
  class_level INTEGER NOT NULL,
  subject TEXT NOT NULL,
  topic TEXT NOT NULL,
  mastery_level REAL NOT NULL DEFAULT 0,
  time_spent INTEGER NOT NULL DEFAULT 0,
  quiz_attempts INTEGER NOT NULL DEFAULT 0,
  average_score REAL NOT NULL DEFAULT 0,
  last_accessed TEXT NOT NULL,
  UNIQUE(user_id, subject, topic)
);

CREATE TABLE IF NOT EXISTS verification_history (
  id TEXT PRIMARY KEY,
  content_type TEXT NOT NULL,
  content_id TEXT NOT NULL,
  action TEXT NOT NULL,
  verified_by TEXT NOT NULL,
  comments TEXT,
  created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_books_subject ON books(stream, class_level, subject);
CREATE INDEX IF NOT EXISTS idx_videos_subject ON videos(stream, class_level, subject);
CREATE INDEX IF NOT EXISTS idx_quizzes_subject ON quizzes(stream, class_level, subject);
CREATE INDEX IF NOT EXISTS idx_chat_sessions_user ON chat_sessions(user_id);
CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages(session_id);
CREATE INDEX IF NOT EXISTS idx_self_assessments_user ON self_assessments(user_id);
CREATE INDEX IF NOT EXISTS idx_verification_content ON verification_history(content_type, content_id)
`

// Same tables for postgres; REAL becomes DOUBLE PRECISION so running
// averages keep full precision.
const schemaPostgres = `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT UNIQUE NOT NULL,
  password_hash TEXT NOT NULL,
  full_name TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'student',
  stream TEXT,
  class_level INTEGER,
  subjects TEXT,
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS self_assessments (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id),
  subject TEXT NOT NULL,
  topic TEXT NOT NULL,
  level TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  UNIQUE(user_id, subject, topic)
);

CREATE TABLE IF NOT EXISTS books (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  author TEXT NOT NULL,
  stream TEXT NOT NULL,
  class_level INTEGER NOT NULL,
  subject TEXT NOT NULL,
  topic TEXT NOT NULL,
  summary TEXT,
  content_url TEXT,
  tags TEXT,
  uploaded_by TEXT REFERENCES users(id),
  status TEXT NOT NULL DEFAULT 'pending',
  verified_by TEXT,
  verified_at TEXT,
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS videos (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  teacher_name TEXT NOT NULL,
  stream TEXT NOT NULL,
  class_level INTEGER NOT NULL,
  subject TEXT NOT NULL,
  topic TEXT NOT NULL,
  video_url TEXT,
  duration INTEGER,
  difficulty TEXT NOT NULL,
  description TEXT,
  tags TEXT,
  uploaded_by TEXT REFERENCES users(id),
  status TEXT NOT NULL DEFAULT 'pending',
  verified_by TEXT,
  verified_at TEXT,
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS quizzes (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  stream TEXT NOT NULL,
  class_level INTEGER NOT NULL,
  subject TEXT NOT NULL,
  topic TEXT NOT NULL,
  difficulty TEXT NOT NULL,
  questions TEXT NOT NULL,
  created_by TEXT REFERENCES users(id),
  status TEXT NOT NULL DEFAULT 'pending',
  verified_by TEXT,
  verified_at TEXT,
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS quiz_attempts (
  id TEXT PRIMARY KEY,
  quiz_id TEXT NOT NULL REFERENCES quizzes(id),
  user_id TEXT NOT NULL REFERENCES users(id),
  answers TEXT NOT NULL,
  score DOUBLE PRECISION NOT NULL,
  completed_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS chat_sessions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id),
  subject TEXT,
  topic TEXT,
  context_type TEXT NOT NULL DEFAULT 'doubt',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS chat_messages (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL REFERENCES chat_sessions(id),
  role TEXT NOT NULL,
  content TEXT NOT NULL,
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS topic_progress (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id),
  stream TEXT NOT NULL,
  class_level INTEGER NOT NULL,
  subject TEXT NOT NULL,
  topic TEXT NOT NULL,
  mastery_level DOUBLE PRECISION NOT NULL DEFAULT 0,
  time_spent INTEGER NOT NULL DEFAULT 0,
  quiz_attempts INTEGER NOT NULL DEFAULT 0,
  average_score DOUBLE PRECISION NOT NULL DEFAULT 0,
  last_accessed TEXT NOT NULL,
  UNIQUE(user_id, subject, topic)
);

CREATE TABLE IF NOT EXISTS verification_history (
  id TEXT PRIMARY KEY,
  content_type TEXT NOT NULL,
  content_id TEXT NOT NULL,
  action TEXT NOT NULL,
  verified_by TEXT NOT NULL,
  comments TEXT,
  created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_books_subject ON books(stream, class_level, subject);
CREATE INDEX IF NOT EXISTS idx_videos_subject ON videos(stream, class_level, subject);
CREATE INDEX IF NOT EXISTS idx_quizzes_subject ON quizzes(stream, class_level, subject);
CREATE INDEX IF NOT EXISTS idx_chat_sessions_user ON chat_sessions(user_id);
CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages(session_id);
CREATE INDEX IF NOT EXISTS idx_self_assessments_user ON self_assessments(user_id);
CREATE INDEX IF NOT EXISTS idx_verification_content ON verification_history(content_type, content_id)
`
